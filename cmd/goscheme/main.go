package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/inttik/scheme/internal/interp"
)

func main() {
	filePath := flag.String("file", "", "Path to a script file to batch-evaluate, one form per line")
	stats := flag.Bool("stats", false, "Print heap allocation/GC counters after each evaluated line")
	flag.Parse()

	ev := interp.NewEvaluator()

	if *filePath != "" {
		runFile(ev, *filePath, *stats)
		return
	}
	runREPL(ev, *stats)
}

func runFile(ev *interp.Evaluator, path string, stats bool) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("goscheme: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		evalLine(ev, scanner.Text(), stats)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("goscheme: %v", err)
	}
}

func runREPL(ev *interp.Evaluator, stats bool) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		evalLine(ev, strings.TrimRight(line, "\r\n"), stats)
		if err != nil {
			return
		}
	}
}

func evalLine(ev *interp.Evaluator, line string, stats bool) {
	if strings.TrimSpace(line) == "" {
		return
	}
	text, err := ev.Run(line)
	if err != nil {
		fmt.Println(classify(err))
	} else if text != "" {
		fmt.Println(text)
	}
	if stats {
		s := ev.Heap().Stats()
		fmt.Printf("; alloc=%d dealloc=%d live=%d\n", s.AllocCount, s.DeallocCount, s.Live)
	}
}

func classify(err error) string {
	var syn *interp.SyntaxError
	var name *interp.NameError
	var rt *interp.RuntimeError
	switch {
	case errors.As(err, &syn):
		return "Syntax error: " + syn.Error()
	case errors.As(err, &name):
		return "Name error: " + name.Error()
	case errors.As(err, &rt):
		return "Runtime error: " + rt.Error()
	default:
		return "Error: " + err.Error()
	}
}
