package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/sftrees/internal/config"
	"github.com/woozymasta/sftrees/internal/geo"
	"github.com/woozymasta/sftrees/internal/logger"
	"github.com/woozymasta/sftrees/internal/trees"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input   string   `short:"i" long:"in"      description:"Input tree CSV path. Reads from stdin if empty"`
	Output  string   `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format  string   `short:"f" long:"format"  description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Unknown []string `short:"u" long:"unknown" description:"Species values treated as unknown (default: \"::\" and \"Tree(s) ::\")"`
	Pixels  bool     `short:"p" long:"pixels"  description:"Add projected canvas coordinates using the default projection"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	unknown := opts.Unknown
	if len(unknown) == 0 {
		unknown = config.DefaultUnknownSpecies
	}
	p := trees.Parser{UnknownSpecies: unknown}

	// Read Input
	var (
		records []trees.Record
		err     error
	)

	if opts.Input != "" {
		records, err = p.Load(opts.Input)
	} else {
		records, err = p.Parse(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trees: %v\n", err)
		os.Exit(1)
	}

	var proj *geo.Projection
	if opts.Pixels {
		proj = config.Default().NewProjection()
	}
	fc := trees.ToGeoJSON(records, proj)

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d trees to %s (format: %s)\n", len(records), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
