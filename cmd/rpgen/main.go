// Command rpgen generates Ring-Pedersen parameters together with proofs of their well-formedness.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/cmp-zk/pkg/paillier"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "rpgen",
		Usage: "generate and check Ring-Pedersen parameters",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log at debug level",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate parameters and proofs, and write them as CBOR",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Value: paillier.SafePrimes.String(),
						Usage: "prime generation mode, one of safe or normal",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 0,
						Usage: "number of workers for prime search, 0 for one per CPU",
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "output file",
					},
				},
				Action: func(c *cli.Context) error {
					mode, err := paillier.ParsePrimeMode(c.String("mode"))
					if err != nil {
						return cli.Exit(err, 2)
					}
					return generate(mode, c.Int("workers"), c.String("out"))
				},
			},
			{
				Name:      "verify",
				Usage:     "check the proofs in a file written by generate",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one file", 2)
					}
					return verify(c.Args().First())
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("rpgen failed")
	}
}
