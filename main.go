package main

import (
	"context"
	"log"
	"os"

	"github.com/akozlenkov/go-debian/control"
	"github.com/urfave/cli/v3"

	"github.com/akozlenkov/faptget/config"
	"github.com/akozlenkov/faptget/deb"
	"github.com/akozlenkov/faptget/installer"
)

func main() {
	cmd := &cli.Command{
		Name:  "faptget",
		Usage: "Fast APT package fetching tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Load config from `FILE`",
				Sources: cli.EnvVars("FAPTGET_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "s3_endpoint",
				Usage:   "S3 endpoint URL",
				Sources: cli.EnvVars("FAPTGET_S3_ENDPOINT"),
			},
			&cli.StringFlag{
				Name:    "s3_bucket",
				Usage:   "S3 bucket name",
				Sources: cli.EnvVars("FAPTGET_S3_BUCKET"),
			},
			&cli.StringFlag{
				Name:    "s3_access_key",
				Usage:   "S3 access key",
				Sources: cli.EnvVars("FAPTGET_S3_ACCESS_KEY"),
			},
			&cli.StringFlag{
				Name:    "s3_secret_key",
				Usage:   "S3 secret key",
				Sources: cli.EnvVars("FAPTGET_S3_SECRET_KEY"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			cfg := config.New()

			if command.String("config") != "" {
				if err := cfg.Load(command.String("config")); err != nil {
					return ctx, err
				}
			}

			for _, k := range []string{
				"s3_endpoint",
				"s3_bucket",
				"s3_access_key",
				"s3_secret_key",
			} {
				if command.String(k) != "" {
					switch k {
					case "s3_endpoint":
						cfg.S3Endpoint = command.String(k)
					case "s3_bucket":
						cfg.S3Bucket = command.String(k)
					case "s3_access_key":
						cfg.S3AccessKey = command.String(k)
					case "s3_secret_key":
						cfg.S3SecretKey = command.String(k)
					}
				}
			}

			return context.WithValue(ctx, "config", cfg), nil
		},
		Commands: []*cli.Command{
			{
				Name:      "install",
				Usage:     "Download and install a package",
				ArgsUsage: "<package>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "url",
						Aliases: []string{"u"},
						Usage:   "Mirror URL, in priority order",
					},
					&cli.StringFlag{
						Name:    "arch",
						Aliases: []string{"m"},
						Usage:   "Target architecture",
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Root directory",
					},
					&cli.StringFlag{
						Name:  "dist",
						Usage: "Distribution name",
					},
					&cli.StringSliceFlag{
						Name:  "component",
						Usage: "Repository component",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					if command.Args().Len() == 0 {
						return cli.ShowSubcommandHelp(command)
					}

					cfg := ctx.Value("config").(*config.Config)
					cfg.Package = command.Args().First()

					if len(command.StringSlice("url")) != 0 {
						cfg.Mirrors = command.StringSlice("url")
					}
					if command.String("arch") != "" {
						cfg.Architecture = command.String("arch")
					}
					if command.String("dir") != "" {
						cfg.RootDir = command.String("dir")
					}
					if command.String("dist") != "" {
						cfg.Dist = command.String("dist")
					}
					if len(command.StringSlice("component")) != 0 {
						cfg.Components = command.StringSlice("component")
					}

					if err := cfg.Validate(); err != nil {
						return err
					}

					inst, err := installer.New(cfg)
					if err != nil {
						return err
					}
					return inst.Install(ctx)
				},
			},
			{
				Name:      "inspect",
				Usage:     "Show the control stanza of a downloaded package",
				ArgsUsage: "<package.deb>",
				Action: func(ctx context.Context, command *cli.Command) error {
					if command.Args().Len() == 0 {
						return cli.ShowSubcommandHelp(command)
					}

					f, err := os.Open(command.Args().First())
					if err != nil {
						return err
					}
					defer f.Close()

					cf, err := deb.ReadControl(f)
					if err != nil {
						return err
					}
					return control.Marshal(os.Stdout, cf)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
