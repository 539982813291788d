package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edslab/courserag/internal/metrics"
	"github.com/edslab/courserag/internal/ragsystem"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive Q&A session over the indexed course materials",
	Long: `
Start an interactive chat session about the indexed course materials. The
conversation history is kept between questions, so follow-up questions like
"what about the next lesson?" work.

Examples:
  courserag chat
`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	metrics.RecordInvocation(metrics.ModeChat)

	log.Println("Starting chat session...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	system, err := buildSystem(ctx, rootConfig)
	cancel()
	if err != nil {
		return err
	}

	fmt.Println("=== CourseRAG Chat Session ===")
	fmt.Println("Type 'exit' or 'quit' to end the session")
	fmt.Println("Type 'help' for available commands")
	fmt.Println("==============================")
	fmt.Println()

	return startChatLoop(system)
}

func startChatLoop(system *ragsystem.System) error {
	scanner := bufio.NewScanner(os.Stdin)
	sessionID := system.CreateSession()

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		userInput := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(userInput) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "help":
			printChatHelp()
			continue
		case "new":
			sessionID = system.CreateSession()
			fmt.Println("Started a new conversation.")
			continue
		case "":
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		answer, err := system.Query(ctx, userInput, sessionID)
		cancel()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("Assistant: %s\n", answer.Response)
		if len(answer.Sources) > 0 {
			fmt.Printf("Sources: %s\n", strings.Join(answer.Sources, ", "))
		}
		fmt.Println()
	}

	return scanner.Err()
}

func printChatHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  exit, quit  - End the chat session")
	fmt.Println("  new         - Start a new conversation")
	fmt.Println("  help        - Show this help message")
	fmt.Println()
}
