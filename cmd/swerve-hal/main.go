// Package main is the swerve-hal command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/swerve/cli"
	// register vendors
	_ "go.viam.com/swerve/vendors/register"
)

func main() {
	app := cli.NewApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
