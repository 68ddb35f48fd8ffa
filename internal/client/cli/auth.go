package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

// SignUp prompts for a username and a password (twice) and creates a local
// account.
func (a *App) SignUp(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	again, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if string(password) != string(again) {
		return errPasswordMismatch
	}

	if err := a.auth.SignUp(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created, you can log in now.")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	return a.loginAs(ctx, userName)
}

func (a *App) loginAs(ctx context.Context, userName string) error {
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "user", userName, "err", err)
		return err
	}

	a.startSession(s)
	fmt.Fprintf(a.out, "Logged in as %s\n", s.User)
	return nil
}

// Logout asks for confirmation, forgets the remembered user and ends the
// session.
func (a *App) Logout(ctx context.Context) error {
	if !confirm(a.reader, "Are you sure you want to log out?", a.out) {
		return nil
	}
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.endSession()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// ChangePassword verifies the current password and re-encrypts the user's
// secure data under the new one.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	again, err := getPassword("Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if string(next) != string(again) {
		return errPasswordMismatch
	}

	s, err := a.auth.ChangePassword(ctx, a.session, current, next)
	if err != nil {
		return err
	}
	a.session = s
	fmt.Fprintln(a.out, "Password updated successfully.")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.auth.Profile(ctx, a.session)
	if err != nil {
		return err
	}
	if p == (models.Profile{}) {
		fmt.Fprintln(a.out, "No profile yet, use 'editprofile'.")
		return nil
	}
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\n", p.FullName, p.Email)
	return nil
}

// EditProfile prompts for each field; an empty answer keeps the old value.
func (a *App) EditProfile(ctx context.Context) error {
	p, err := a.auth.Profile(ctx, a.session)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Full name [%s]", p.FullName), a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", p.Email), a.out)
	if err != nil {
		return err
	}
	if name != "" {
		p.FullName = name
	}
	if email != "" {
		p.Email = email
	}

	if err := a.auth.SaveProfile(ctx, a.session, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated successfully!")
	return nil
}
