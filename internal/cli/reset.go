package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/labcheck/internal/security"
)

const temporaryPasswordLength = 12

// resetPassword gives login a temporary password that must be changed on the
// next sign-in.
func resetPassword(s *store, login string, out io.Writer) error {
	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}

	admin, err := s.auth.SetPassword(login, temporaryPassword, true)
	if err != nil {
		return fmt.Errorf("reset password for %q: %w", login, err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", admin.Login)
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "The password must be changed on next login.")
	return nil
}
