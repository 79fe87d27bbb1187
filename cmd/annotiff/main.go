package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/kpfaulkner/annotiff/config"
	"github.com/kpfaulkner/annotiff/core"
	"github.com/kpfaulkner/annotiff/options"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: annotiff [-config file] [-v] [-profile] <command> [flags]

commands:
  info    -i file                                 list size and layers
  render  -i file -o out.png [-layers a,b] [-alpha f]
  resize  -i file -o file -w width -h height
  add     -i file -o file -name n -color R,G,B [-replace] [-unlabelled]
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("annotiff", flag.ContinueOnError)
	configFile := fs.String("config", "", "config file (toml)")
	verbose := fs.Bool("v", false, "debug logging")
	prof := fs.Bool("profile", false, "write a CPU profile to the current directory")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Errorf("Error loading config: %v", err)
		return 1
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, log.GetLevel())
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *prof {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		defer p.Stop()
	}

	start := time.Now()
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "info":
		err = runInfo(rest, stdout)
	case "render":
		err = runRender(rest, cfg)
	case "resize":
		err = runResize(rest, cfg)
	case "add":
		err = runAdd(rest, cfg)
	default:
		log.Errorf("unknown command %q", cmd)
		fs.Usage()
		return 2
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		log.Errorf("%s: %v", cmd, err)
		return 1
	}
	log.Debugf("%s took %d ms", cmd, time.Since(start).Milliseconds())
	return 0
}

func codecOptions(cfg config.Config) (*options.CodecOptions, error) {
	opts, err := cfg.CodecOptions()
	if err != nil {
		return nil, err
	}
	opts.Verbose = log.IsLevelEnabled(log.DebugLevel)
	return opts, nil
}

func runInfo(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	infile := fs.String("i", "", "input file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *infile == "" {
		return errors.New("input file must be specified")
	}

	img, err := core.Load(*infile, nil)
	if err != nil {
		return err
	}
	height, width, _ := img.Shape()
	fmt.Fprintf(stdout, "size %dx%d, %d layers\n", width, height, len(img.Names()))
	for _, name := range img.Names() {
		color, _ := img.ColorOf(name)
		mask, _ := img.MaskOf(name)
		fmt.Fprintf(stdout, "  %-20s %-16s %d px\n", name, color, mask.Count())
	}
	fmt.Fprintf(stdout, "unlabelled %d px\n", img.UnlabelledMask().Count())
	return nil
}

func runRender(args []string, cfg config.Config) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	infile := fs.String("i", "", "input file")
	outfile := fs.String("o", "", "output png file")
	layers := fs.String("layers", "", "comma separated layer names, all when not given")
	alpha := fs.Float64("alpha", cfg.Render.Alpha, "layer opacity in [0, 1]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *infile == "" || *outfile == "" {
		return errors.New("both input and output files must be specified")
	}

	img, err := core.Load(*infile, nil)
	if err != nil {
		return err
	}

	var names []string
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "layers" {
			names = splitNames(*layers)
		}
	})
	for _, name := range names {
		if _, err := img.ColorOf(name); err == nil {
			continue
		}
		if s := suggest(name, img.Names()); s != "" {
			log.Warnf("no layer %q, skipping (did you mean %q?)", name, s)
		} else {
			log.Warnf("no layer %q, skipping", name)
		}
	}

	out, err := img.Render(names, *alpha)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out.ToImage()); err != nil {
		return err
	}
	return os.WriteFile(*outfile, buf.Bytes(), 0666)
}

func runResize(args []string, cfg config.Config) error {
	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	infile := fs.String("i", "", "input file")
	outfile := fs.String("o", "", "output file")
	width := fs.Int("w", 0, "new width")
	height := fs.Int("h", 0, "new height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *infile == "" || *outfile == "" {
		return errors.New("both input and output files must be specified")
	}

	opts, err := codecOptions(cfg)
	if err != nil {
		return err
	}
	img, err := core.Load(*infile, opts)
	if err != nil {
		return err
	}
	resized, err := img.Resize(*width, *height)
	if err != nil {
		return err
	}
	return resized.Save(*outfile, opts)
}

func runAdd(args []string, cfg config.Config) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	infile := fs.String("i", "", "input file")
	outfile := fs.String("o", "", "output file")
	name := fs.String("name", "", "layer name")
	colorArg := fs.String("color", "", "layer colour as R,G,B")
	replace := fs.Bool("replace", false, "remove an existing layer of the same name first")
	unlabelled := fs.Bool("unlabelled", false, "mask every pixel no other layer covers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *infile == "" || *outfile == "" || *name == "" || *colorArg == "" {
		return errors.New("-i, -o, -name and -color must be specified")
	}
	color, err := config.ParseColor(*colorArg)
	if err != nil {
		return err
	}

	opts, err := codecOptions(cfg)
	if err != nil {
		return err
	}
	img, err := core.Load(*infile, opts)
	if err != nil {
		return err
	}

	if *replace && img.RemoveLayer(*name) {
		log.Infof("replacing layer %q", *name)
	}
	mask := img.UnlabelledMask()
	if !*unlabelled {
		mask.Fill(false)
	}
	added, err := img.AddLayerWithMask(*name, mask, color)
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("layer %q already exists, use -replace", *name)
	}
	return img.Save(*outfile, opts)
}

// splitNames parses a -layers value. The result is never nil, so an empty
// list selects no layers.
func splitNames(s string) []string {
	names := []string{}
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// suggest returns the candidate closest to name, or "" when nothing is
// within a third of the name's length.
func suggest(name string, candidates []string) string {
	best, bestDist := "", len(name)/3+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
