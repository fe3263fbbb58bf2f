package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/emi-calculator/internal/calculator"
	"github.com/iwvelando/emi-calculator/internal/config"
	"github.com/iwvelando/emi-calculator/internal/logging"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/datetime"
	"github.com/iwvelando/emi-calculator/pkg/output"
	"github.com/iwvelando/emi-calculator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	month := flag.String("month", "", "only show the installment due in this month (YYYY-MM) for every loan")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *month != "" {
		if _, err := datetime.ParseYearMonth(*month); err != nil {
			logger.Fatal("invalid month filter",
				zap.String("op", "main"),
				zap.String("month", *month),
				zap.Error(err),
			)
		}
		conf.SetFilterMonth(*month)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	reports, err := calculator.Run(context.Background(), logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute loan schedules",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, reports, conf.Calculator.CurrencySymbol)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, reports)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
