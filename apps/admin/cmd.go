package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/darasahq/darasa/core/invitation"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sqlx.DB
	invSvc invitation.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  issuecode -classroom ID [-email ADDR] - issue an invitation code for a classroom")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	issueCodeCmd := flag.NewFlagSet("issuecode", flag.ExitOnError)
	issueCodeClassroom := issueCodeCmd.String("classroom", "", "The classroom to invite to.")
	issueCodeEmail := issueCodeCmd.String("email", "", "Restrict the invitation to this email. Omit for a reusable class code.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "issuecode":
		if err := issueCodeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *issueCodeClassroom == "" {
			issueCodeCmd.Usage()
			return errHelp
		}
		return cli.issueCode(*issueCodeClassroom, *issueCodeEmail)
	default:
		cli.printUsage()
		return errHelp
	}
}
