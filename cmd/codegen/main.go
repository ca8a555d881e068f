package main

import (
	"context"
	"fmt"
	"go/format"
	"log"
	"os"
	"time"

	"github.com/delaneyj/signalview/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	arityKey  = "count"
	outputKey = "out"
	moduleKey = "module"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate typed limited scope constructors",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  arityKey,
				Usage: "Highest number of cells a typed constructor takes",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  moduleKey,
				Usage: "Import path of the module; read from ./go.mod when empty",
			},
			&cli.StringFlag{
				Name:  outputKey,
				Usage: "File to write",
				Value: "scope/limited_gen.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for limited scopes started !")
	defer func() {
		log.Printf("Codegen for limited scopes finished in %v", time.Since(start))
	}()

	count := int(cmd.Uint(arityKey))
	if count < 1 {
		return fmt.Errorf("--%s must be at least 1", arityKey)
	}
	out := cmd.String(outputKey)

	module := cmd.String(moduleKey)
	if module == "" {
		var err error
		if module, err = modulePath("."); err != nil {
			return err
		}
	}
	log.Printf("Module: %s, arity: 1..%d, output: %s", module, count, out)

	contents, err := format.Source([]byte(templates.LimitedGen(module, count)))
	if err != nil {
		return fmt.Errorf("formatting generated code: %w", err)
	}
	if err := os.WriteFile(out, contents, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
