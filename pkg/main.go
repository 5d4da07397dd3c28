package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/pollworks/pollbox/pkg/internal"
	"github.com/pollworks/pollbox/pkg/internal/database"
	"github.com/pollworks/pollbox/pkg/internal/http"
	"github.com/pollworks/pollbox/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____       _ _ _\n|  _ \\ ___ | | | |__   _____  __\n| |_) / _ \\| | | '_ \\ / _ \\ \\/ /\n|  __/ (_) | | | |_) | (_) >  <\n|_|   \\___/|_|_|_.__/ \\___/_/\\_\\"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Pollbox"), pkg.AppVersion)
	fmt.Printf("The minimal polls & choices CRUD service\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	source, err := database.NewGorm()
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(source); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", func() {
		services.DoAutoDatabaseCleanup(source)
	})
	quartz.Start()

	// Server
	go http.NewServer(source).Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
