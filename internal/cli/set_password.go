package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/labcheck/internal/services"
)

// setPassword stores password for login. When no administrator exists yet the
// account is created.
func setPassword(s *store, login string, password string, out io.Writer) error {
	if err := services.ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("password must be at least 8 characters with upper, lower case letters and a digit: %w", err)
	}

	admin, err := s.auth.SetPassword(login, password, false)
	if errors.Is(err, services.ErrAdminNotFound) {
		created, bootstrapErr := s.auth.BootstrapAdmin(login, password, false)
		if bootstrapErr != nil {
			return fmt.Errorf("create admin %q: %w", login, bootstrapErr)
		}
		if !created {
			return fmt.Errorf("admin %q: %w", login, err)
		}
		fmt.Fprintf(out, "Admin %s created\n", services.NormalizeLogin(login))
		return nil
	}
	if err != nil {
		return fmt.Errorf("set password for %q: %w", login, err)
	}

	fmt.Fprintf(out, "Password updated for %s\n", admin.Login)
	return nil
}

// promptNewPassword asks for the password twice without echo.
func promptNewPassword(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "New password: ")
	first, err := readSecret(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := readSecret(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

// readPasswordLine reads the first line of in, for scripted use.
func readPasswordLine(in io.Reader) (string, error) {
	password, err := readLine(bufio.NewReader(in))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
