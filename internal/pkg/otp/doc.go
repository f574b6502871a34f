// Package otp provides helpers for generating one-time passwords (OTP)
// delivered out of band, such as numeric codes sent over email.
//
// This is typically used for 2FA flows: generate a short-lived numeric code,
// deliver it to the user, then compare the user-provided code against the
// stored one.
package otp
