package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"createmvp/internal/chat"
	"createmvp/internal/config"
	"createmvp/internal/logging"
	"createmvp/internal/tui/components"

	"github.com/spf13/cobra"
)

var (
	chatModel     string
	chatNoContext bool
	chatHistory   bool
	chatRaw       bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to the planning assistant and print the reply",
	Long: `Send a single message to the CreateMVP chat API and print the reply.

The API key for the model's provider must be registered in your CreateMVP
account settings. With --history the stored conversation is sent along as
context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the chat models",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Model id (default: default_model from the config)")
	chatCmd.Flags().BoolVar(&chatNoContext, "no-context", false, "Only use messages of the selected model as context")
	chatCmd.Flags().BoolVar(&chatHistory, "history", false, "Load the stored chat history as context")
	chatCmd.Flags().BoolVar(&chatRaw, "raw", false, "Print the reply without terminal styling")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	logger := logging.NewAppLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	modelID := chatModel
	if modelID == "" {
		modelID = cfg.DefaultModel
	}
	model, ok := chat.LookupModel(modelID)
	if !ok {
		return fmt.Errorf("unknown model %q (see `createmvp models`)", modelID)
	}

	client := newClient(cfg, logger)
	session := chat.NewSession(logger, cfg.PreserveContext && !chatNoContext)
	if err := session.RefreshCredentials(ctx, client); err != nil {
		return err
	}
	if chatHistory {
		if err := session.LoadHistory(ctx, client); err != nil {
			return err
		}
	}

	reply, err := session.Send(ctx, client, strings.Join(args, " "), model.ID)
	if errors.Is(err, chat.ErrCredentialRequired) {
		return fmt.Errorf("configuration needed: add an API key for %s at %s", model.Provider, settingsURL(cfg))
	}
	if err != nil {
		return err
	}
	return printReply(cmd.OutOrStdout(), reply)
}

func printReply(w io.Writer, reply chat.Message) error {
	if chatRaw {
		_, err := fmt.Fprintln(w, reply.Content)
		return err
	}
	rendered, err := components.NewMarkdownRenderer("").Render("reply", reply.Content, showRenderWidth)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func settingsURL(cfg *config.Config) string {
	return strings.TrimRight(cfg.APIURL, "/") + "/settings"
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tPROVIDER\tNAME")
	for _, m := range chat.Models {
		label := m.Label
		if strings.EqualFold(m.ID, cfg.DefaultModel) {
			label += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Provider, label)
	}
	return w.Flush()
}
