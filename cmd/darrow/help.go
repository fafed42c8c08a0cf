package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
		"version": func() string { return version },
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of)
	if err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// usageFunc prints the command's help template; it is installed as the
// flag set's Usage.
func usageFunc(of HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: of}).Error())
	}
}

func (r *root) Template() string { return "root.txt" }

func (p *paintCmd) Template() string { return "paint.txt" }

func (c *renderCmd) Template() string { return "render.txt" }

func (b *brushesCmd) Template() string { return "brushes.txt" }

func (c *configCmd) Template() string { return "config.txt" }

func (v *versionCmd) Template() string { return "version.txt" }

func (h *helpCmd) Template() string { return "help.txt" }

// helpCmd prints the help of another command.
type helpCmd struct {
	*root
	fs    *flag.FlagSet
	topic string
}

func (h *helpCmd) FlagSet() *flag.FlagSet { return h.fs }

func parseHelpCmd(args []string, r *root) (*helpCmd, error) {
	fs := flag.NewFlagSet("help", flag.ContinueOnError)
	h := &helpCmd{root: r, fs: fs}
	fs.Usage = usageFunc(h)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: h}
	}
	h.topic = fs.Arg(0)
	return h, nil
}

// subject returns the command a help topic names, without parsing it.
func (h *helpCmd) subject() (HelpData, error) {
	r := h.root
	switch h.topic {
	case "":
		return r, nil
	case "paint":
		return newPaintCmd(r), nil
	case "render":
		return newRenderCmd(r), nil
	case "brushes":
		return newBrushesCmd(r), nil
	case "config":
		return newConfigCmd(r), nil
	case "version":
		return &versionCmd{r: r}, nil
	case "help":
		return h, nil
	}
	return nil, fmt.Errorf("unknown help topic %q", h.topic)
}

func (h *helpCmd) Run() error {
	subject, err := h.subject()
	if err != nil {
		return err
	}
	text, err := (&UsageError{of: subject}).renderHelp()
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}
