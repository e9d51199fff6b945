// Command schedbot runs the appointment-scheduling agent behind an
// interactive terminal chat. The terminal layer translates user input into
// agent commands (/slots, /booked, /cancel, free text) and renders the
// responses it receives on the reply channel; the scheduling logic itself
// lives in internal/agent.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"schedbot/internal/agent"
	"schedbot/internal/config"
	"schedbot/internal/ledger"
	"schedbot/internal/llm"
)

var (
	configPath string
	modelFlag  string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedbot",
		Short: "Conversational appointment-scheduling agent",
		Long: `An interactive appointment-scheduling assistant backed by the OpenAI
chat API. Talk to it in natural language, or use the slash commands:

  /slots                  show available appointment slots
  /booked                 list booked appointments
  /cancel <date> <time>   cancel an appointment (e.g. /cancel 2025-11-06 09:00)
  /quit                   exit`,
		RunE:          runChat,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "OpenAI chat model (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	// Best effort; a missing .env simply means the variables come from the
	// real environment.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.SetupLogger(); err != nil {
		return err
	}

	seed := ledger.New()
	if len(cfg.Slots) > 0 {
		seed = ledger.NewWithSlots(cfg.Slots)
	}

	a := agent.New(llm.NewOpenAIClient(cfg.Model), seed)
	a.Start()
	defer a.Stop()

	ui := newChatUI()
	replies := make(chan agent.Response, 16)
	go func() {
		for r := range replies {
			ui.addAgent(r.Message)
		}
	}()

	logrus.WithField("model", cfg.Model).Debug("chat session starting")
	return ui.loop(a, replies)
}

// chatUI renders the conversation and collects agent responses arriving
// from the sink goroutine.
type chatUI struct {
	mu      sync.Mutex
	history []string
	arrived chan struct{} // signalled on each agent message
}

func newChatUI() *chatUI {
	return &chatUI{arrived: make(chan struct{}, 1)}
}

func (ui *chatUI) addAgent(message string) {
	ui.mu.Lock()
	ui.history = append(ui.history, color.CyanString("Agent: ")+message)
	ui.mu.Unlock()
	select {
	case ui.arrived <- struct{}{}:
	default:
	}
}

func (ui *chatUI) addUser(text string) {
	ui.mu.Lock()
	ui.history = append(ui.history, color.GreenString("You: ")+text)
	ui.mu.Unlock()
}

func (ui *chatUI) addNote(text string) {
	ui.mu.Lock()
	ui.history = append(ui.history, text)
	ui.mu.Unlock()
}

// waitForAgent blocks until at least one agent message arrived or the
// timeout passed, then gives trailing messages a short grace period.
func (ui *chatUI) waitForAgent(timeout time.Duration) {
	select {
	case <-ui.arrived:
		time.Sleep(200 * time.Millisecond)
	case <-time.After(timeout):
	}
}

func (ui *chatUI) render() {
	fmt.Print("\033[H\033[2J")
	header := color.New(color.FgYellow, color.Bold)
	header.Println("=================================================")
	header.Println("   Appointment Scheduling Agent")
	header.Println("=================================================")
	fmt.Println("Type your message to interact with the agent.")
	fmt.Println("Special commands:")
	fmt.Println("  /slots  - Check available appointment slots")
	fmt.Println("  /booked - View all booked appointments")
	fmt.Println("  /cancel <date> <time> - Cancel an appointment (e.g. /cancel 2025-11-06 09:00)")
	fmt.Println("  /quit   - Exit the application")
	fmt.Println("=================================================")
	fmt.Println()

	ui.mu.Lock()
	for _, line := range ui.history {
		fmt.Println(line)
	}
	ui.mu.Unlock()
	fmt.Println()
}

func (ui *chatUI) loop(a *agent.Agent, replies chan<- agent.Response) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		ui.render()
		fmt.Print("You: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		ui.addUser(input)

		switch {
		case strings.EqualFold(input, "/quit") || strings.EqualFold(input, "exit"):
			ui.addNote("Thank you for using the Appointment Scheduling Agent. Goodbye!")
			ui.render()
			return nil
		case strings.EqualFold(input, "/slots"):
			a.Tell(agent.GetAvailableSlots{ReplyTo: replies})
			ui.waitForAgent(2 * time.Second)
		case strings.EqualFold(input, "/booked"):
			a.Tell(agent.GetBookedAppointments{ReplyTo: replies})
			ui.waitForAgent(2 * time.Second)
		case strings.HasPrefix(strings.ToLower(input), "/cancel "):
			parts := strings.Fields(input)
			if len(parts) < 3 {
				ui.addNote("Usage: /cancel <date> <time> (e.g. /cancel 2025-11-06 09:00)")
				continue
			}
			a.Tell(agent.CancelAppointment{Date: parts[1], Time: parts[2], ReplyTo: replies})
			ui.waitForAgent(2 * time.Second)
		default:
			a.Tell(agent.UserMessage{Text: input, ReplyTo: replies})
			ui.waitForAgent(30 * time.Second)
		}
	}
}
