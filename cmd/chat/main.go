// File: cmd/chat/main.go

// Command chat is a minimal terminal front end for the streaming chat server.
// It keeps the conversation in a client.Session and prints assistant output
// as it streams in.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/relaydev/chatstream/internal/client"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "chat server base URL")
	chatID := flag.String("chat", "", "existing chat id to continue (optional)")
	flag.Parse()

	c := client.New(*serverURL)
	session := client.NewSession(c, *chatID)
	session.OnDelta = func(delta string) { fmt.Print(delta) }

	if *chatID != "" {
		if err := printHistory(c, *chatID); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load chat %s: %v\n", *chatID, err)
			os.Exit(1)
		}
	}

	fmt.Println("Type a message and press enter. Ctrl-D to quit.")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		sendErr := session.Send(context.Background(), text)
		fmt.Println()
		if sendErr != nil {
			fmt.Fprintf(os.Stderr, "turn failed: %v\n", sendErr)
			continue
		}
		if *chatID == "" && session.ChatID() != "" {
			*chatID = session.ChatID()
			fmt.Printf("(chat id: %s)\n", *chatID)
		}
	}
}

func printHistory(c *client.Client, chatID string) error {
	chat, err := c.GetChat(context.Background(), chatID)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n\n", chat.Title)
	for _, m := range chat.Messages {
		fmt.Printf("[%s] %s\n", m.Role, m.Content)
	}
	return nil
}
