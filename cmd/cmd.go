// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles initialization tasks
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialization tasks",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a starter configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination path for the configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// libraryCommand handles library import and embedding operations
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Music library operations",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import and augment tracks from an exported library XML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the exported library XML file",
						Required: true,
					},
				},
				Action: r.LibraryImport,
			},
			{
				Name:   "embed",
				Usage:  "Index stored tracks into the vector database",
				Action: r.LibraryEmbed,
			},
		},
	}
}

// playlistCommand handles playlist generation
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist generation operations",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a playlist from a name and a theme prompt",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Name for the generated playlist",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "prompt",
						Aliases:  []string{"p"},
						Usage:    "Theme or mood describing the playlist",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistGenerate,
			},
			{
				Name:   "ui",
				Usage:  "Generate a playlist through an interactive form",
				Action: r.PlaylistUI,
			},
		},
	}
}

// tracksCommand handles stored track inspection
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Inspect stored tracks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored tracks and their augmentation state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TracksList,
			},
			{
				Name:      "show",
				Usage:     "Show a single stored track by its platform id",
				ArgsUsage: "<platform-track-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TracksShow,
			},
		},
	}
}
