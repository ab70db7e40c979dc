package config

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Will be set by go-build
var (
	Version       string
	Rev           string
	exampleConfig string
)

const (
	defaultTimeout  = 5  // seconds, per provider request
	defaultCacheTTL = 10 // seconds
)

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	showVersion := pflag.BoolP("version", "v", false, "Show version number")
	showHelp := pflag.BoolP("help", "h", false, "Show usage message")
	pflag.CommandLine.MarkHidden("help")
	pflag.BoolP("debug", "d", false, "Enable debug mode")
	pflag.BoolP("list-providers", "l", false, "List supported price providers")
	pflag.IntP("refresh", "r", 0, "Auto refresh on every specified seconds, "+
		"note every provider has a rate limit, \ntoo frequent refresh may cause your IP banned by their servers")

	var configFile string
	pflag.StringVarP(&configFile, "config-file", "c", "", `Config file path, use "--example-config-file <path>" `+
		"to generate an example config file,\n"+
		"by default cryptopulse uses \"cryptopulse.yml\" in current directory or $HOME as config file")
	var exampleConfigFile string
	pflag.StringVar(&exampleConfigFile, "example-config-file", "",
		"Generate example config file to the specified file path, by default it outputs to stdout")
	pflag.Lookup("example-config-file").NoOptDefVal = "-"

	pflag.StringSliceP("providers", "P", nil, "Comma-separated ordered list of providers to query \n"+
		"(eg. \"coingecko,binance\"), defaults to all supported providers")
	pflag.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	pflag.IntP("timeout", "t", defaultTimeout, "HTTP request timeout in seconds, applied per provider")
	pflag.Int("cache-ttl", defaultCacheTTL, "Seconds an aggregated price is served from cache \n"+
		"before providers are queried again")
	pflag.CommandLine.SortFlags = false
	pflag.Usage = showUsageAndExit
	pflag.Parse()

	if *showHelp {
		showUsageAndExit()
	}

	if *showVersion {
		fmt.Fprintf(os.Stderr, "version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	if exampleConfigFile != "" {
		writeExampleConfig(exampleConfigFile)
		os.Exit(0)
	}

	viper.BindPFlag("cache_ttl", pflag.Lookup("cache-ttl"))
	viper.BindPFlags(pflag.CommandLine)
	// Set configure file
	viper.SetConfigName("cryptopulse") // name of config file (without extension)
	viper.AddConfigPath(".")           // path to look for the config file in
	viper.AddConfigPath("$HOME")       // optionally look for config in the HOME directory
	viper.AddConfigPath("/etc")        // and /etc
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}
	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			if pflag.NArg() == 0 { // And no query on the command line
				showUsageAndExit()
			}
		default:
			logrus.Warnf("Error reading config file: %v", err)
		}
	}
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logrus.Fatalln(errors.Wrapf(err, "failed to parse %q", viper.ConfigFileUsed()))
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if pflag.NArg() != 0 {
		// command-line queries take precedence
		cfg.Queries = []string{joinArgs(pflag.Args())}
	}
	logrus.Debugln("Using config file:", viper.ConfigFileUsed())
	return &cfg
}

// joinArgs glues command-line words back into one free-form query, so both
// `cryptopulse "2 btc to usd"` and `cryptopulse 2 btc to usd` work.
func joinArgs(args []string) string {
	query := ""
	for i, arg := range args {
		if i > 0 {
			query += " "
		}
		query += arg
	}
	return query
}

func showUsageAndExit() {
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options] [Query]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nAggregate crypto prices from multiple providers and convert between assets in the terminal")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nQuery:")
	fmt.Fprintln(os.Stderr, "  A free-form conversion query, eg. \"btc\", \"eth usd\", \"2 btc to eur\" or \"(1.2+0.3) sol to usdt\". "+
		"The amount may be any arithmetic expression and defaults to 1.")
	os.Exit(0)
}

func writeExampleConfig(fpath string) {
	if exampleConfig == "" {
		logrus.Fatalln("example config should be set by build script!")
	}
	fout, err := os.Stdout, error(nil)
	if fpath != "-" {
		if _, err := os.Stat(fpath); err == nil {
			logrus.Warnf("%s already exists, skipping", fpath)
			return
		}
		if fout, err = os.Create(fpath); err != nil {
			logrus.Errorln(errors.Wrapf(err, "failed to create config file %s", fpath))
			return
		}
		defer fout.Close()
	}
	if _, err := fout.WriteString(exampleConfig); err != nil {
		logrus.Errorln(errors.Wrapf(err, "failed to write config file %s", fpath))
	} else if fout != os.Stdout {
		logrus.Infof("Write example config file to %s", fpath)
	}
}

func ListProvidersAndExit(providers []string) {
	fmt.Fprintln(os.Stderr, "Supported providers:")
	for _, name := range providers {
		fmt.Fprintf(os.Stderr, " %s\n", name)
	}
	os.Exit(0)
}
