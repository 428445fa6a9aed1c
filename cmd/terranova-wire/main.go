package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/log"
	"github.com/peterkuimelis/terranova/internal/message"
	"github.com/peterkuimelis/terranova/internal/wire"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "decode":
		runDecode(os.Args[2:])
	case "capture":
		runCapture(os.Args[2:])
	case "catalog":
		runCatalog(os.Args[2:])
	case "version":
		fmt.Println(message.ProtocolVersion)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  terranova-wire decode [--game FILE] [--capture FILE] [--log FILE] [--verbose] [PAYLOAD]")
	fmt.Println("  terranova-wire capture [--type T] [--tag TAG] [--min-level L] FILE")
	fmt.Println("  terranova-wire catalog [--file FILE]")
	fmt.Println("  terranova-wire version")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  decode   Parse a message payload (file or stdin) and describe it")
	fmt.Println("  capture  Print a CBOR event capture file as text")
	fmt.Println("  catalog  List the unit and goods types of a catalog")
	fmt.Println("  version  Print the protocol version")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	gameFile := fs.String("game", "", "saved game XML to resolve references against")
	captureFile := fs.String("capture", "", "append decode events to a CBOR capture file")
	logFile := fs.String("log", "", "append decode events to a rotating text log")
	verbose := fs.Bool("verbose", false, "print the whole payload tree, not just the root")
	fs.Parse(args)

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		in = f
	}

	var g *game.Game
	if *gameFile != "" {
		loaded, err := loadGame(*gameFile)
		if err != nil {
			fatal(err)
		}
		g = loaded
	}

	memory := log.NewMemoryLogger()
	sinks := []log.EventLogger{memory}
	if *captureFile != "" {
		capture, err := log.NewCaptureFile(*captureFile)
		if err != nil {
			fatal(err)
		}
		defer capture.Close()
		sinks = append(sinks, capture)
	}
	if *logFile != "" {
		zl := log.NewZapLogger(log.NewRotatingZapLogger(*logFile, *verbose))
		defer zl.Sync()
		sinks = append(sinks, zl)
	}
	var logger log.EventLogger = memory
	if len(sinks) > 1 {
		logger = log.NewMultiLogger(sinks...)
	}

	data, err := io.ReadAll(io.LimitReader(in, wire.MaxMessageBytes))
	if err != nil {
		fatal(err)
	}
	text := string(data)

	d := message.NewDispatcher(g, logger, nil)
	msg, err := d.DecodeString(text)
	if err != nil {
		var malformed *wire.MalformedError
		if errors.As(err, &malformed) && malformed.Raw != "" {
			fmt.Fprintf(os.Stderr, "raw payload: %q\n", malformed.Raw)
		}
		fatal(err)
	}

	// DecodeString succeeded, so the text parses.
	env, err := message.ParseString(text)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("type:        %s\n", env.Type())
	if msg != nil {
		fmt.Printf("constructor: %s\n", message.TypeName(env.Type()))
	} else {
		fmt.Println("constructor: (none, message dropped)")
	}
	root := env.Root()
	for _, name := range root.AttrNames() {
		fmt.Printf("  %s = %q\n", name, root.Attr(name))
	}
	fmt.Printf("children:    %d\n", root.ChildCount())
	if *verbose {
		printTree(root, 0)
	}

	fmt.Println()
	fmt.Print(log.FormatAll(memory.Events()))
}

func loadGame(path string) (*game.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := wire.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse game file: %w", err)
	}
	if doc.Root().Tag() != game.TagGame {
		return nil, fmt.Errorf("game file root is <%s>, want <game>", doc.Root().Tag())
	}
	g := game.NewGame(nil)
	g.FromWire(doc.Root(), nil)
	return g, nil
}

func printTree(el *wire.Element, depth int) {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("<" + el.Tag())
	for _, name := range el.AttrNames() {
		fmt.Fprintf(&sb, " %s=%q", name, el.Attr(name))
	}
	sb.WriteString(">")
	fmt.Println(sb.String())
	for _, child := range el.Children() {
		printTree(child, depth+1)
	}
}

func runCapture(args []string) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	typeName := fs.String("type", "", "only events of this type (e.g. ParseError)")
	tag := fs.String("tag", "", "only events for this wire tag")
	minLevel := fs.String("min-level", "", "only events at or above this level (debug, info, warn, error)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "capture: exactly one FILE argument required")
		os.Exit(1)
	}

	filter := log.Filter{Tag: *tag}
	if *typeName != "" {
		et, ok := parseEventType(*typeName)
		if !ok {
			fatal(fmt.Errorf("unknown event type %q", *typeName))
		}
		filter.Type = &et
	}
	if *minLevel != "" {
		lv, ok := parseLevel(*minLevel)
		if !ok {
			fatal(fmt.Errorf("unknown level %q", *minLevel))
		}
		filter.MinLevel = &lv
	}

	reader, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		fatal(err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		fatal(err)
	}
	for _, e := range events {
		fmt.Println(log.FormatEvent(e))
	}
}

func parseEventType(s string) (log.EventType, bool) {
	types := []log.EventType{
		log.EventParse, log.EventParseError, log.EventSerialize,
		log.EventDispatch, log.EventDispatchMiss, log.EventScopeReject,
		log.EventBuild,
	}
	for _, et := range types {
		if strings.EqualFold(et.String(), s) {
			return et, true
		}
	}
	return 0, false
}

func parseLevel(s string) (log.Level, bool) {
	levels := []log.Level{log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError}
	for _, lv := range levels {
		if strings.EqualFold(lv.String(), s) {
			return lv, true
		}
	}
	return 0, false
}

func runCatalog(args []string) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	file := fs.String("file", "", "catalog YAML file (default: built-in catalog)")
	fs.Parse(args)

	c := game.DefaultCatalog()
	if *file != "" {
		loaded, err := game.LoadCatalog(*file)
		if err != nil {
			fatal(err)
		}
		c = loaded
	}

	fmt.Println("Unit types:")
	for _, name := range c.UnitTypeNames() {
		u, _ := c.UnitType(name)
		kind := "land"
		if u.Naval {
			kind = "naval"
		}
		fmt.Printf("  %-10s %s, %d moves, capacity %d\n", name, kind, u.Moves, u.Capacity)
	}
	fmt.Println("Goods types:")
	for _, name := range c.GoodsTypeNames() {
		gt, _ := c.GoodsType(name)
		fmt.Printf("  %-10s base price %d\n", name, gt.BasePrice)
	}
}
