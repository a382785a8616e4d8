// Basic CLI for human interaction with a pollenstore data file.
//
// Not suitable for automated or programmatic usage.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/davidmasek/pollenstore"

	"github.com/kballard/go-shellquote"
	"github.com/phuslu/log"
)

func main() {
	file := flag.String("file", "data.db", "path to the data file")
	repl := flag.Bool("repl", false, "run multiple commands")
	flag.Parse()

	store, err := pollenstore.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to open store")
	}
	defer store.Close()

	fmt.Println("Welcome to PollenStore")
	printHelp()

	reader := bufio.NewReader(os.Stdin)
	if *repl {
		for runCommand(store, reader) {
		}
		return
	}
	runCommand(store, reader)
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("\tget <key>")
	fmt.Println("\tset <key> <value>")
	fmt.Println("\tdel <key>")
	fmt.Println("\tlist")
	fmt.Println("\texit")
}

// runCommand reads and executes one command, reporting whether the loop
// should continue.
func runCommand(store pollenstore.Store, reader *bufio.Reader) bool {
	fmt.Print("> ")

	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	// quoted arguments may contain spaces: set greeting "hello world"
	parts, err := shellquote.Split(line)
	if err != nil {
		fmt.Println("parse error:", err)
		return true
	}
	if len(parts) == 0 {
		return true
	}

	switch parts[0] {
	case "exit":
		return false
	case "list":
		keys, err := store.List()
		if err != nil {
			fmt.Println("error:", err)
			return true
		}
		fmt.Println(keys)
	case "get":
		if len(parts) != 2 {
			printHelp()
			return true
		}
		value, err := store.Get(parts[1])
		if err != nil {
			fmt.Println("error:", err)
			return true
		}
		fmt.Println(value)
	case "set":
		if len(parts) != 3 {
			printHelp()
			return true
		}
		if err := store.Set(parts[1], parts[2]); err != nil {
			fmt.Println("error:", err)
		}
	case "del":
		if len(parts) != 2 {
			printHelp()
			return true
		}
		if err := store.Remove(parts[1]); err != nil {
			fmt.Println("error:", err)
		}
	case "help":
		printHelp()
	default:
		fmt.Println("Unknown command")
		printHelp()
	}
	return true
}
