package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/sfcdoc/pkg/catalog"
)

const maxWidth = 80

func newInspectCmd(a *app) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "inspect [name]",
		Short: "Show a component from the saved catalog",
		Long: `Show a component documented by a previous scan. Without a name, every
component of the catalog is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogPath == "" {
				catalogPath = a.cfg.CatalogPath
			}
			qs, err := catalog.LoadAndQuery(catalogPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				printComponentList(out, qs.ListComponents("", ""))
				return nil
			}
			comp, ok := qs.GetComponent(args[0])
			if !ok {
				return fmt.Errorf("component %q not found in %s", args[0], catalogPath)
			}
			printComponentHuman(out, *comp)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog file (default: catalog_path from config)")
	return cmd
}

func printComponentList(w io.Writer, comps []catalog.Component) {
	if len(comps) == 0 {
		fmt.Fprintln(w, "(no components)")
		return
	}
	nameW := 0
	for _, c := range comps {
		nameW = max(nameW, len(c.Name))
	}
	for _, c := range comps {
		fmt.Fprintf(w, "%-*s  %s\n", nameW, c.Name, c.Path)
	}
}

// printComponentHuman prints a human-readable component summary.
func printComponentHuman(w io.Writer, comp catalog.Component) {
	header := comp.Name
	if comp.Category != "" {
		header += fmt.Sprintf("  [%s]", comp.Category)
	}
	fmt.Fprintln(w, header)
	if comp.Path != "" {
		fmt.Fprintf(w, "  %s\n", comp.Path)
	}

	if comp.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, comp.Description, 0, maxWidth)
	}

	if comp.Model != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Model  v-model binds prop %q, updated by event %q\n", comp.Model.Prop, comp.Model.Event)
	}

	fmt.Fprintln(w)
	printPropsSection(w, comp.Props)

	fmt.Fprintln(w)
	rows := make([][2]string, len(comp.Events))
	for i, e := range comp.Events {
		name := e.Name
		if len(e.Arguments) > 0 {
			name += "(" + strings.Join(e.Arguments, ", ") + ")"
		}
		rows[i] = [2]string{name, e.Description}
	}
	printListSection(w, "Events", rows)

	fmt.Fprintln(w)
	rows = make([][2]string, len(comp.Slots))
	for i, s := range comp.Slots {
		name := s.Name
		if len(s.Props) > 0 {
			name += " { " + strings.Join(s.Props, ", ") + " }"
		}
		rows[i] = [2]string{name, s.Description}
	}
	printListSection(w, "Slots", rows)

	fmt.Fprintln(w)
	rows = rows[:0]
	for _, m := range comp.Methods {
		syntax := m.Syntax
		if len(syntax) == 0 {
			syntax = []string{m.Name + "()"}
		}
		for i, s := range syntax {
			desc := ""
			if i == 0 {
				desc = m.Description
			}
			rows = append(rows, [2]string{s, desc})
		}
	}
	printListSection(w, "Methods", rows)

	if len(comp.Errors)+len(comp.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Diagnostics")
		for _, msg := range comp.Errors {
			fmt.Fprintf(w, "  %-9s %s\n", "[error]", msg)
		}
		for _, msg := range comp.Warnings {
			fmt.Fprintf(w, "  %-9s %s\n", "[warning]", msg)
		}
	}
}

// printListSection renders name/description rows under a title.
func printListSection(w io.Writer, title string, rows [][2]string) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}
	fmt.Fprintln(w, title)
	nameW := 0
	for _, r := range rows {
		nameW = max(nameW, len(r[0]))
	}
	for _, r := range rows {
		line := fmt.Sprintf("  %-*s  %s", nameW, r[0], r[1])
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, props []catalog.Prop) {
	if len(props) == 0 {
		fmt.Fprintln(w, "Props  (none)")
		return
	}

	fmt.Fprintln(w, "Props")

	nameW, typeW, defW := len("NAME"), len("TYPE"), len("DEFAULT")
	for _, p := range props {
		nameW = max(nameW, len(p.Name))
		typeW = max(typeW, len(p.Type))
		defW = max(defW, len(defaultText(p)))
	}

	sepLen := nameW + typeW + 5 + defW + 4
	fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %s\n", nameW, "NAME", typeW, "TYPE", "REQ", "DEFAULT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))

	for _, p := range props {
		req := "no"
		if p.Required {
			req = "yes"
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %s\n", nameW, p.Name, typeW, p.Type, req, defaultText(p))
		if p.Description != "" {
			fmt.Fprintf(w, "  %s  %s\n", strings.Repeat(" ", nameW), p.Description)
		}
	}
}

func defaultText(p catalog.Prop) string {
	if p.Default == "" {
		return "—"
	}
	return p.Default
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		switch {
		case line == prefix:
			line += word
		case len(line)+len(word)+1 > width:
			fmt.Fprintln(w, line)
			line = prefix + word
		default:
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
