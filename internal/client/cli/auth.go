package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getSecret are swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

func (a *App) bootstrap(ctx context.Context, _ []string) error {
	token, err := getSecret("Bootstrap token", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Admin email", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret("Password (min 8 characters)", a.out)
	if err != nil {
		return err
	}

	body := map[string]string{"token": token, "email": email, "password": password}
	if err := a.api.Call(ctx, "bootstrap-admin", callPost(body), nil); err != nil {
		return err
	}
	a.printf("Admin account created. Run 'soldctl login' to sign in.\n")
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getSecret("Password", a.out)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}
	a.printf("Signed in as %s\n", email)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.printf("Signed out\n")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	t, err := a.session.Tokens(ctx)
	if err != nil {
		return err
	}
	if t.AccessToken == "" {
		a.printf("Not signed in\n")
		return nil
	}
	a.printf("Signed in (session stored%s)\n", refreshNote(t.RefreshToken))
	return nil
}

func refreshNote(refreshToken string) string {
	if refreshToken == "" {
		return ", no refresh token"
	}
	return fmt.Sprintf(", refresh token …%s", tail(refreshToken, 6))
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
