package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"adscan/internal/adlog"
)

// setup runs the interactive configuration wizard: it only ever asks for
// an output path and compression level, since no secret ever needs
// masked input once there is no LDAP bind credential in scope.
func setup() {
	adlog.Info("no output path configured")
	adlog.Info("starting interactive setup")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	currentCfg := GetConfig()

	currentCfg.Output = prompt(scanner, "Output archive path [adscan-out.tar.gz]: ", nil)
	if currentCfg.Output == "" {
		currentCfg.Output = "adscan-out.tar.gz"
	}

	level := strconv.Itoa(DefaultCompression)
	c := prompt(scanner, fmt.Sprintf("Compression level [%s]: ", level), func(input string) error {
		if input == "" {
			return nil
		}
		return ValidateCompressionString(input)
	})
	if c != "" {
		currentCfg.Compression, _ = strconv.Atoi(c)
	} else {
		currentCfg.Compression = DefaultCompression
	}

	save := prompt(scanner, "Save this configuration for future use? [Y/n]: ", nil)
	if save == "" || strings.ToLower(save) == "y" || strings.ToLower(save) == "yes" {
		_ = SetConfig("output", currentCfg.Output)
		_ = SetConfig("compression", currentCfg.Compression)

		if err := SaveConfig(); err != nil {
			adlog.Errorf("saving configuration: %v", err)
		} else {
			adlog.Infof("configuration saved to %s", DefaultConfigPath())
		}
	}

	fmt.Println()
	adlog.Info("setup complete, continuing")
	fmt.Println()
}

// prompt reads one validated line from scanner, reprompting on failure.
func prompt(scanner *bufio.Scanner, label string, validator func(string) error) string {
	for {
		fmt.Print(label)
		if !scanner.Scan() {
			return ""
		}
		input := strings.TrimSpace(scanner.Text())
		if validator != nil {
			if err := validator(input); err != nil {
				adlog.Warn(err.Error())
				continue
			}
		}
		return input
	}
}
