package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/reoring/yangbind/dataschema"
	"github.com/reoring/yangbind/schema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "tree":
		treeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "yangbind CLI\n\nUsage:\n  yangbind tree -schema file.yaml|file.json [-json] [-config]\n\nNotes:\n  - Prints the data-schema index of an effective schema document.")
}

func treeCmd(args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	var file string
	var asJSON, config, verbose bool
	fs.StringVar(&file, "schema", "", "effective schema document (YAML or JSON)")
	fs.BoolVar(&asJSON, "json", false, "print the index as JSON")
	fs.BoolVar(&config, "config", false, "show configuration instead of operational mandatory checks")
	fs.BoolVar(&verbose, "v", false, "log loading details")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, err := loadSchema(file)
	if err != nil {
		fatalf("load %s: %v", file, err)
	}
	logrus.WithFields(logrus.Fields{"file": file, "modules": len(ctx.Modules())}).Debug("schema loaded")

	tt := dataschema.Operational
	if config {
		tt = dataschema.Configuration
	}
	tree := dataschema.NewTree(ctx)
	if asJSON {
		err = writeJSON(os.Stdout, tree, tt)
	} else {
		err = writeText(os.Stdout, tree, tt)
	}
	if err != nil {
		fatalf("tree: %v", err)
	}
}

func loadSchema(file string) (*schema.Context, error) {
	if strings.EqualFold(filepath.Ext(file), ".json") {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return schema.LoadJSON(b)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return schema.LoadYAML(f)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
