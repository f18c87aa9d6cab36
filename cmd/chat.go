package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	commandRestart = "/restart"
	commandSave    = "/save"
	commandHelp    = "/help"

	chatHelp = "Commands: /restart starts over, /save stores your progress, /help shows this message. " +
		"Type exit, quit or bye to finish."
)

var errExit = errors.New("exit requested")

var restartPrompt = promptui.Select{
	Label: "Discard this conversation and start over?",
	Items: []string{PromptYes, PromptNo},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive screening session",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("transcript", "t", "", "write the conversation transcript to this JSON file when the session ends")
	chatCmd.Flags().String("data-dir", "", "directory for saved candidate data")

	viper.BindPFlag("data-dir", chatCmd.Flags().Lookup("data-dir"))
}

// chat runs one interactive screening session on the terminal.
func chat(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config, err := getConfig()
	if err != nil {
		log.Fatalf("getting a config: %s", err)
	}

	var outputs []string
	if config.LogFile != "" {
		outputs = append(outputs, config.LogFile)
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), outputs...)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	logger.Info("starting the talentscout", zap.String("version", version))

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai completer", zap.Error(err))
	}

	external, err := openStore(ctx, config.Store)
	if err != nil {
		logger.Warn("external store unavailable, keeping local files only",
			zap.String("backend", config.Store.Backend),
			zap.Error(err),
		)
		external = store.Nop{}
	}
	defer external.Close()

	recorder := store.NewRecorder(store.NewArchive(config.DataDir), external, logger)

	session := interview.New(interview.Config{
		Completer: completer,
		Recorder:  recorder,
		Logger:    logger,
	})

	say(session.Start())

	if err := converse(ctx, session, logger); err != nil && !errors.Is(err, errExit) {
		logger.Error("conversation stopped", zap.Error(err))
	}

	// The signal context may be cancelled here; persistence must still run.
	session.Abandon(context.WithoutCancel(ctx))

	if path := session.ArtifactPath(); path != "" {
		logger.Info("candidate data saved", zap.String("path", path))
	}

	if transcript := strings.TrimSpace(cmd.Flag("transcript").Value.String()); transcript != "" {
		if err := session.WriteTranscript(transcript); err != nil {
			logger.Error("writing transcript", zap.Error(err))
			return
		}
		logger.Info("transcript written", zap.String("path", transcript))
	}
}

func converse(ctx context.Context, session *interview.Session, logger *zap.Logger) error {
	input := promptui.Prompt{Label: "You"}

	for !session.Ended() {
		line, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return errExit
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if ctx.Err() != nil {
			return errExit
		}

		switch strings.TrimSpace(strings.ToLower(line)) {
		case commandHelp:
			say(chatHelp)
		case commandSave:
			path, err := session.Save(ctx)
			if err != nil {
				logger.Error("saving progress", zap.Error(err))
				say("Sorry, I couldn't save your progress.")
				continue
			}
			say(fmt.Sprintf("Your progress has been saved to %s.", path))
		case commandRestart:
			_, answer, err := restartPrompt.Run()
			if errors.Is(err, promptui.ErrInterrupt) {
				continue
			}
			if err != nil {
				return fmt.Errorf("restart prompt: %w", err)
			}
			if answer != PromptYes {
				continue
			}
			session.Reset(ctx)
			say(session.Start())
		default:
			say(session.Handle(ctx, line))
		}
	}

	return nil
}

func say(text string) {
	fmt.Printf("\nAssistant: %s\n\n", text)
}
