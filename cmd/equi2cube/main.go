// equi2cube converts equirectangular panoramas into cube map faces.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Faultbox/equi2cube/internal/archive"
	"github.com/Faultbox/equi2cube/internal/config"
	"github.com/Faultbox/equi2cube/internal/imageio"
	"github.com/Faultbox/equi2cube/internal/job"
	"github.com/Faultbox/equi2cube/internal/logger"
	"github.com/Faultbox/equi2cube/pkg/cubemap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var code int
	switch command {
	case "single", "s":
		code = cmdSingle(ctx, args)
	case "batch", "b":
		code = cmdBatch(ctx, args)
	case "faces":
		code = cmdFaces(args)
	case "list", "ls":
		code = cmdList(args)
	case "config":
		code = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}
	stop()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`equi2cube - convert equirectangular panoramas to cube maps

Usage:
  equi2cube <command> [options]

Commands:
  single [flags] <image> <output_dir>     Convert one panorama
  batch  [flags] <input_dir> <output_dir> Convert every image in a folder
  faces                                   Show the cube face layout
  list   [--verify] <archive.zip>         List (and decode) files in a batch archive
  config [flags] [path]                   Print or save the effective config

Flags (single, batch, config):
  --face-size N    Face edge length in pixels (default 512)
  --max-size       Use min(width/4, height/3) of each input
  --faces LIST     Comma-separated subset of front,right,back,left,top,bottom
  --composite      Also write the 4x3 cross layout as {name}_cubemap
  --name PREFIX    Output file prefix (default: input file name)
  --workers N      Faces computed in parallel (0 = one per CPU)
  --format FMT     jpg or png
  --quality N      JPEG quality 1-100
  --no-archive     Do not zip batch output
  --config PATH    Config file (default ./equi2cube.yaml)
  --debug          Debug logging
  --log-file PATH  Also log to a rotating file

Examples:
  equi2cube single --max-size lobby.jpg ./out
  equi2cube single --faces front,top --composite lobby.jpg ./out
  equi2cube batch --face-size 1024 ./panoramas ./out
  equi2cube list ./out/lobby_20240102_030405.zip`)
}

// setup parses flags, loads config and starts logging.
func setup(name string, args []string) (*config.Config, *flag.FlagSet, bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.NewFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, fs, false
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, fs, false
	}
	return cfg, fs, true
}

func cmdSingle(ctx context.Context, args []string) int {
	cfg, fs, ok := setup("single", args)
	if !ok {
		return 1
	}
	defer logger.Sync()

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: equi2cube single [flags] <image> <output_dir>")
		return 1
	}

	j, err := job.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	item, err := j.ConvertFile(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		logger.Error("conversion failed", zap.String("input", fs.Arg(0)), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.Conversion.MaxSize {
		fmt.Printf("Using max face size: %d pixels.\n", item.FaceSize)
	}
	for _, path := range item.Outputs {
		fmt.Printf("Saved: %s\n", path)
	}
	fmt.Printf("Conversion complete. Cubemap faces saved in %s.\n", fs.Arg(1))
	return 0
}

func cmdBatch(ctx context.Context, args []string) int {
	cfg, fs, ok := setup("batch", args)
	if !ok {
		return 1
	}
	defer logger.Sync()

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: equi2cube batch [flags] <input_dir> <output_dir>")
		return 1
	}

	b, err := job.NewBatch(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	report, err := b.Run(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		var empty *job.EmptyBatchError
		if errors.As(err, &empty) {
			logger.Warn("no images to convert", zap.String("dir", empty.Dir))
			fmt.Fprintln(os.Stderr, "No valid images found in the input directory.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if report == nil {
			return 1
		}
	}

	for _, it := range report.Items {
		if it.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", it.Input, it.Err)
			continue
		}
		fmt.Printf("OK      %s (%d files, face size %d)\n", it.Input, len(it.Outputs), it.FaceSize)
	}
	fmt.Printf("\n%d of %d images converted into %s\n", report.Succeeded(), len(report.Items), report.Folder)
	if report.Archive != "" {
		fmt.Printf("Zipped output saved as %s\n", report.Archive)
	}

	if err != nil || report.Err() != nil {
		return 1
	}
	return 0
}

func cmdFaces(args []string) int {
	fs := flag.NewFlagSet("faces", flag.ExitOnError)
	fs.Parse(args)

	title := cases.Title(language.English)
	fmt.Printf("%-8s %-12s %-12s %-12s %s\n", "Face", "Forward", "Up (rows)", "Right (cols)", "Cell")
	for _, f := range cubemap.Faces() {
		fmt.Printf("%-8s %-12s %-12s %-12s (%d,%d)\n",
			title.String(f.Name.String()),
			vec(f.Forward.X, f.Forward.Y, f.Forward.Z),
			vec(f.Up.X, f.Up.Y, f.Up.Z),
			vec(f.Right.X, f.Right.Y, f.Right.Z),
			f.Row, f.Col)
	}

	fmt.Println()
	fmt.Println("Cross layout:")
	var grid [cubemap.LayoutRows][cubemap.LayoutCols]string
	for _, f := range cubemap.Faces() {
		grid[f.Row][f.Col] = title.String(f.Name.String())
	}
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, c := range row {
			if c == "" {
				c = "."
			}
			cells[i] = fmt.Sprintf("%-7s", c)
		}
		fmt.Println("  " + strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return 0
}

func vec(x, y, z float64) string {
	return fmt.Sprintf("(%g,%g,%g)", x, y, z)
}

func cmdList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	verify := fs.Bool("verify", false, "Decode every image entry")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: equi2cube list [--verify] <archive.zip>")
		return 1
	}

	a, err := archive.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	var total uint64
	bad := 0
	files := a.List()
	for _, name := range files {
		size, _ := a.Size(name)
		total += size
		if !*verify {
			fmt.Printf("%10d  %s\n", size, name)
			continue
		}
		status := "ok"
		if err := verifyEntry(a, name); err != nil {
			status = err.Error()
			bad++
		}
		fmt.Printf("%10d  %s  %s\n", size, name, status)
	}
	fmt.Fprintf(os.Stderr, "\n(%d files, %.2f MB)\n", len(files), float64(total)/(1024*1024))
	if bad > 0 {
		fmt.Fprintf(os.Stderr, "%d entries failed to decode\n", bad)
		return 1
	}
	return 0
}

// verifyEntry decodes an image entry of a batch archive.
func verifyEntry(a *archive.Archive, name string) error {
	if !imageio.IsImageFile(name) {
		return nil
	}
	data, err := a.Read(name)
	if err != nil {
		return err
	}
	_, _, err = imageio.Decode(bytes.NewReader(data))
	return err
}

func cmdConfig(args []string) int {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	flags := config.NewFlags(fs)
	user := fs.Bool("user", false, "Save to the user config directory")
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case *user:
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Saved config to %s\n", path)
	case fs.NArg() > 0:
		if err := cfg.SaveTo(fs.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("Saved config to %s\n", fs.Arg(0))
	default:
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
	}
	return 0
}
