// Command chessdata hides files in chess games and recovers them.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chessdata"
	app.Usage = "encode files as legal chess games and decode them back"
	app.Version = "1.0.0"
	app.Writer = os.Stdout
	app.Flags = globalFlags()
	app.Commands = []cli.Command{
		encodeCommand,
		decodeCommand,
		inspectCommand,
		alphabetCommand,
	}
	return app
}
