package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/sfcdoc/pkg/catalog"
	"github.com/gnana997/sfcdoc/pkg/entry"
	"github.com/gnana997/sfcdoc/pkg/vuedoc"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default .sfcdoc/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = defaultConfigPath
			}
			written, err := writeProjectConfig(path, defaultProjectConfig())
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

type parseOptions struct {
	features   []string
	visibility string
	text       bool
}

func newParseCmd(a *app) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Document component files and print the result",
		Long: `Document one or more component files. A single file prints one JSON
object, several files print an array. Use - to read a component from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringSliceVar(&opts.features, "features", nil, "documentation kinds to extract (prop, data, computed, method, event, slot, model)")
	cmd.Flags().StringVar(&opts.visibility, "visibility", "", "visibility of entries without a visibility tag")
	cmd.Flags().BoolVar(&opts.text, "text", false, "print a human-readable summary instead of JSON")
	return cmd
}

func runParse(cmd *cobra.Command, a *app, opts parseOptions, files []string) error {
	if len(opts.features) > 0 {
		a.cfg.Parser.Features = make([]entry.Kind, len(opts.features))
		for i, f := range opts.features {
			a.cfg.Parser.Features[i] = entry.Kind(f)
		}
	}
	if opts.visibility != "" {
		a.cfg.Parser.DefaultVisibility = entry.Visibility(opts.visibility)
	}

	parser, err := a.newParser()
	if err != nil {
		return err
	}
	defer parser.Close()

	components := make([]*vuedoc.Component, 0, len(files))
	for _, file := range files {
		src, err := readSource(cmd.InOrStdin(), file)
		if err != nil {
			return err
		}
		comp, err := parser.Parse(cmd.Context(), src)
		if err != nil {
			return err
		}
		components = append(components, comp)
	}

	out := cmd.OutOrStdout()
	if opts.text {
		for i, comp := range components {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printComponentHuman(out, catalog.FromComponent(comp))
		}
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if len(components) == 1 {
		return enc.Encode(components[0])
	}
	return enc.Encode(components)
}

func readSource(stdin io.Reader, file string) (vuedoc.Source, error) {
	if file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return vuedoc.Source{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return vuedoc.Source{Content: data}, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return vuedoc.Source{}, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return vuedoc.Source{Path: file, Content: data}, nil
}
