package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lk16/mines/internal/minesweeper"
)

func main() {
	layout := flag.String("layout", "", "the board to show, rows separated by '/'")
	mines := flag.Int("mines", 0, "the mine count used when restarting the board")
	hidden := flag.Bool("hidden", false, "show the board as the player sees it")
	flag.Parse()

	board, err := minesweeper.NewBoardFromLayout(strings.Split(*layout, "/"), *mines)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *hidden {
		fmt.Println(board.String())
	} else {
		fmt.Println(strings.Join(board.Layout(), "\n"))
	}

	fmt.Printf("width: %d height: %d mines: %d status: %s\n", board.Width(), board.Height(), board.Mines(), board.Status())
}
