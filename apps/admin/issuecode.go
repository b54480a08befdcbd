package main

import (
	"context"
	"fmt"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/invitation"
)

// issueCode issues an invitation for a classroom and prints the generated code.
func (cli *commandLine) issueCode(classroomID, email string) error {
	ctx := context.Background()

	inv, err := cli.invSvc.Issue(ctx, invitation.NewInvitation{
		ClassroomID: core.CleanString(classroomID),
		Email:       core.CleanString(email, true /* lower */),
	})
	if err != nil {
		return err
	}

	fmt.Printf("code: %s (expires %s)\n", inv.Token, inv.ExpiresAt.Format(time.RFC822))
	return nil
}
