package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"createmvp/internal/credentials"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginStatus bool

var loginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Store your CreateMVP API token in the OS keyring",
	Long: `Store the API token used for chat requests in the OS credential store.

Without an argument the token is read from stdin; on a terminal the input
is hidden. Create a token in your CreateMVP account settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credentials.NewManager().DeleteToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "API token removed.")
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginStatus, "status", false, "Show whether a token is stored")
}

func runLogin(cmd *cobra.Command, args []string) error {
	mgr := credentials.NewManager()
	out := cmd.OutOrStdout()

	if loginStatus {
		token, err := mgr.Token()
		if errors.Is(err, credentials.ErrNoToken) {
			fmt.Fprintln(out, "Not logged in.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Logged in with token %s\n", credentials.Mask(token))
		return nil
	}

	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		var err error
		if token, err = readToken(cmd.InOrStdin(), out); err != nil {
			return err
		}
	}

	if err := mgr.StoreToken(token); err != nil {
		return err
	}
	fmt.Fprintf(out, "Token %s stored.\n", credentials.Mask(strings.TrimSpace(token)))
	return nil
}

// readToken reads one line from in, hiding the input when it is the terminal.
func readToken(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "API token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if strings.TrimSpace(line) == "" {
		return "", errors.New("no token given")
	}
	return line, nil
}
