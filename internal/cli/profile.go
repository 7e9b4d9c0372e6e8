package cli

import (
	"context"
	"fmt"
	"os"
)

// Profile shows the signed-in user's profile and optionally updates it.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.profiles.Get(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Email:        %s", u.Email))
	printlnFn(fmt.Sprintf("Display name: %s", u.DisplayName))
	printlnFn(fmt.Sprintf("Username:     %s", u.Username))
	printlnFn(fmt.Sprintf("Bio:          %s", u.Bio))

	answer, err := getSimpleText(a.reader, "Edit profile? (y/N)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		return nil
	}

	displayName, err := getSimpleText(a.reader, "Display name", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	bio, err := getSimpleText(a.reader, "Bio", os.Stdout)
	if err != nil {
		return err
	}
	return a.profiles.Update(ctx, displayName, username, bio)
}
