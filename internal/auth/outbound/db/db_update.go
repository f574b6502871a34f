package db

import (
	"context"
)

// MarkOtpCodeConsumed flips the code to used+verified only when it is still
// unused. It returns false when another caller consumed the row first.
func (s *DB) MarkOtpCodeConsumed(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkOtpCodeConsumed")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE auth_otp_codes
		SET is_used = TRUE, is_verified = TRUE
		WHERE id = $1 AND is_used = FALSE`

	tag, err := s.conn.Exec(ctx, query, id)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
