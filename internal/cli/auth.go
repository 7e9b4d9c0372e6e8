package cli

import (
	"context"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignUp prompts for an email and password, creates the account, writes the
// initial profile document, and pulls the (empty) remote collection.
func (a *App) SignUp(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	uid, err := a.authenticator.SignUp(ctx, email, string(password))
	if err != nil {
		return err
	}
	if err := a.profiles.CreateInitial(ctx, uid, email); err != nil {
		return err
	}

	printlnFn("Account created.")
	a.syncInBackground(ctx)
	return nil
}

// Login prompts for credentials and signs in, then kicks off a pull.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.authenticator.SignIn(ctx, email, string(password)); err != nil {
		return err
	}

	printlnFn("Signed in.")
	a.syncInBackground(ctx)
	return nil
}

// Logout drops the session. Local entries stay on disk.
func (a *App) Logout(ctx context.Context) error {
	a.authenticator.SignOut()
	printlnFn("Signed out.")
	return nil
}
