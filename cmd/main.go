package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dargueta/arrayobj"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:  "arrayobj",
		Usage: "Inspect and create packed array files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "log what's being done to stderr",
				EnvVars: []string{"ARRAYOBJ_VERBOSE"},
			},
		},
		Before: configureLogging,
		Commands: []*cli.Command{
			{
				Name:      "describe",
				Usage:     "Print the type, format and shape of a packed array",
				Action:    describeArray,
				ArgsUsage: "FILE",
			},
			{
				Name:      "dump",
				Usage:     "Print the elements of a packed array as CSV",
				Action:    dumpArray,
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Usage: "convert elements to this type first (default: widest for the data)",
					},
					&cli.BoolFlag{
						Name:    "allow-lossy",
						Usage:   "allow converting double precision data to single precision",
						EnvVars: []string{"ARRAYOBJ_ALLOW_LOSSY"},
					},
				},
			},
			{
				Name:      "pack",
				Usage:     "Pack the \"value\" column of a CSV file into an array",
				Action:    packArray,
				ArgsUsage: "CSV_FILE  OUTPUT_FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "type",
						Usage:    "element type, one of: " + packableTypeNames(),
						Required: true,
					},
					&cli.StringFlag{
						Name:  "shape",
						Usage: "comma-separated dimensions, or \"scalar\" (default: 1-D)",
					},
					&cli.BoolFlag{
						Name:  "as-is",
						Usage: "store the elements without trying to make them smaller",
					},
				},
			},
			{
				Name:      "concat",
				Usage:     "Stack arrays of the same shape and type along a new first dimension",
				Action:    concatArrays,
				ArgsUsage: "OUTPUT_FILE  INPUT_FILE...",
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func configureLogging(context *cli.Context) error {
	level := slog.LevelWarn
	if context.Bool("verbose") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func requireArgs(context *cli.Context, minimum int) error {
	if context.Args().Len() < minimum {
		return cli.Exit(
			fmt.Sprintf("expected at least %d arguments, got %d", minimum, context.Args().Len()), 1)
	}
	return nil
}

func readArray(path string) (*arrayobj.ArrayObject, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	obj, err := arrayobj.ReadObject(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug(
		"read array",
		"path", path,
		"type", obj.DataType(),
		"shape", obj.Shape(),
		"size", obj.DataSize(),
	)
	return obj, nil
}

func writePacked(path string, packed []byte) error {
	err := os.WriteFile(path, packed, 0o644)
	if err == nil {
		slog.Debug("wrote array", "path", path, "size", len(packed))
	}
	return err
}

func describeArray(context *cli.Context) error {
	if err := requireArgs(context, 1); err != nil {
		return err
	}

	path := context.Args().First()
	packed, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	description, err := arrayobj.DescribeFooter(packed)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = fmt.Fprintf(context.App.Writer, "%s: %s, %d bytes total\n", path, description, len(packed))
	return err
}

func dumpArray(context *cli.Context) error {
	if err := requireArgs(context, 1); err != nil {
		return err
	}

	obj, err := readArray(context.Args().First())
	if err != nil {
		return err
	}

	typeName := context.String("type")
	if typeName == "" {
		typeName = defaultDumpType[obj.DataType()]
	}
	handler, ok := elementTypes[typeName]
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown type %q", typeName), 1)
	}

	var options []arrayobj.ConvertOption
	if context.Bool("allow-lossy") {
		options = append(options, arrayobj.AllowLossyFloat())
	}

	texts, err := handler.format(obj, options...)
	if err != nil {
		return err
	}

	shape := obj.Shape()
	rows := make([]elementRow, len(texts))
	for i, text := range texts {
		rows[i] = elementRow{Index: formatIndex(uint64(i), shape), Value: text}
	}
	return gocsv.Marshal(rows, context.App.Writer)
}

func packArray(context *cli.Context) error {
	if err := requireArgs(context, 2); err != nil {
		return err
	}

	typeName := context.String("type")
	handler, ok := elementTypes[typeName]
	if !ok || handler.parse == nil {
		return cli.Exit(
			fmt.Sprintf("can't pack type %q, expected one of: %s", typeName, packableTypeNames()), 1)
	}

	inputPath := context.Args().Get(0)
	input, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	rows := []elementRow{}
	if err = gocsv.Unmarshal(input, &rows); err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.Value
	}
	slog.Debug("read values", "path", inputPath, "count", len(texts))

	shape, err := parseShape(context.String("shape"), len(texts))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	obj, err := handler.parse(texts, shape)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	var packed []byte
	if context.Bool("as-is") {
		packed, err = obj.PackAsItIs()
	} else {
		packed, err = obj.Pack()
	}
	if err != nil {
		return err
	}
	slog.Debug(
		"packed array",
		"type", obj.DataType(),
		"shape", obj.Shape(),
		"original_size", obj.DataSize(),
		"packed_size", len(packed),
	)
	return writePacked(context.Args().Get(1), packed)
}

func concatArrays(context *cli.Context) error {
	if err := requireArgs(context, 2); err != nil {
		return err
	}

	inputPaths := context.Args().Slice()[1:]
	objs := make([]*arrayobj.ArrayObject, 0, len(inputPaths))
	for _, path := range inputPaths {
		obj, err := readArray(path)
		if err != nil {
			return err
		}
		objs = append(objs, obj)
	}

	stacked, err := arrayobj.TryConcat(objs)
	if err != nil {
		return err
	}

	packed, err := stacked.Pack()
	if err != nil {
		return err
	}
	return writePacked(context.Args().First(), packed)
}
