package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndn-go/corendn/cmd/chat/chat"
)

func main() {
	root := &cobra.Command{
		Use:   "chat",
		Short: "NDN ChronoSync chat sample",
	}
	root.AddCommand(chat.CmdChat())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
