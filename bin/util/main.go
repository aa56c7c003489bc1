package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	apexJSON "github.com/apex/log/handlers/json"
	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/oklog/ulid/v2"
	"github.com/pseudovision/pseudovision/api"
	"github.com/pseudovision/pseudovision/common"
	"github.com/urfave/cli/v2"
)

type newChannelList struct {
	Channels []api.NewChannelRequest `json:"channels" validate:"required,gte=1"`
}

type provisionChannelArgs struct {
	DefinitionFile string `validate:"required,file"`
}

type cliArgs struct {
	JSONLog         bool
	LogLevel        string `validate:"required,oneof=debug info warn error"`
	APIBaseURL      string `validate:"required,url"`
	RequestIDHeader string `validate:"required"`
}

var cmdArgs cliArgs

var logTags log.Fields

var provChanArgs provisionChannelArgs

func main() {
	hostname, err := os.Hostname()
	if err != nil {
		log.WithError(err).Fatal("Unable to read hostname")
	}
	logTags = log.Fields{
		"module":    "main",
		"component": "main",
		"instance":  hostname,
	}

	app := &cli.App{
		Version:     "v0.1.0",
		Usage:       "application entrypoint",
		Description: "Pseudovision OPS support utility application",
		Flags: []cli.Flag{
			// LOGGING
			&cli.BoolFlag{
				Name:        "json-log",
				Usage:       "Whether to log in JSON format",
				Aliases:     []string{"j"},
				EnvVars:     []string{"LOG_AS_JSON"},
				Value:       false,
				DefaultText: "false",
				Destination: &cmdArgs.JSONLog,
				Required:    false,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Logging level: [debug info warn error]",
				Aliases:     []string{"l"},
				EnvVars:     []string{"LOG_LEVEL"},
				Value:       "warn",
				DefaultText: "warn",
				Destination: &cmdArgs.LogLevel,
				Required:    false,
			},
			// Node base URL
			&cli.StringFlag{
				Name:        "api-base-url",
				Usage:       "Pseudovision node API base URL",
				Aliases:     []string{"u"},
				EnvVars:     []string{"NODE_API_BASE_URL"},
				Value:       "http://127.0.0.1:8080",
				DefaultText: "http://127.0.0.1:8080",
				Destination: &cmdArgs.APIBaseURL,
				Required:    false,
			},
			&cli.StringFlag{
				Name:        "request-id-header",
				Usage:       "HTTP header for request ID",
				Aliases:     []string{"i"},
				EnvVars:     []string{"REQUEST_ID_HTTP_HEADER"},
				Value:       "X-Request-ID",
				DefaultText: "X-Request-ID",
				Destination: &cmdArgs.RequestIDHeader,
				Required:    false,
			},
		},
		Commands: []*cli.Command{
			{
				Name:        "provision-channels",
				Aliases:     []string{"prov-chan"},
				Usage:       "Provision channels",
				Description: "Provision new channels in the system, skipping any that already exist by name.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "definition-file",
						Usage:       "New channel definition file",
						Aliases:     []string{"c"},
						EnvVars:     []string{"DEFINITION_FILE"},
						Destination: &provChanArgs.DefinitionFile,
						Required:    true,
					},
				},
				Action: provisionChannels,
			},
		},
	}

	err = app.Run(os.Args)
	if err != nil {
		log.WithError(err).WithFields(logTags).Fatal("Program shutdown")
	}
}

// setupLogging helper function to prepare the app logging
func setupLogging() {
	if cmdArgs.JSONLog {
		log.SetHandler(apexJSON.New(os.Stderr))
	}
	switch cmdArgs.LogLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.ErrorLevel)
	}
}

func provisionChannels(c *cli.Context) error {
	validate := validator.New()

	// Validate general config
	if err := validate.Struct(&cmdArgs); err != nil {
		return err
	}

	setupLogging()

	if err := validate.Struct(&provChanArgs); err != nil {
		return err
	}

	// Process channel definition file
	var definitionFile newChannelList
	if theFile, err := os.Open(provChanArgs.DefinitionFile); err != nil {
		return err
	} else if err := json.NewDecoder(theFile).Decode(&definitionFile); err != nil {
		return err
	}

	{
		t, _ := json.Marshal(definitionFile.Channels)
		log.WithFields(logTags).WithField("channels", string(t)).Info("Provision channels")
	}

	targetURL, err := url.Parse(fmt.Sprintf("%s/v1/channel", cmdArgs.APIBaseURL))
	if err != nil {
		log.
			WithError(err).
			WithFields(logTags).
			WithField("channel-define-url", fmt.Sprintf("%s/v1/channel", cmdArgs.APIBaseURL)).
			Error("Unable to parse channel define URL")
		return err
	}

	client := resty.New()

	reqID := ulid.Make().String()

	// Get all known channels
	resp, err := client.R().
		// Set request header
		SetHeader(cmdArgs.RequestIDHeader, reqID).
		// Setup error parsing
		SetError(goutils.RestAPIBaseResponse{}).
		Get(targetURL.String())
	if err != nil {
		log.
			WithError(err).
			WithFields(logTags).
			WithField("request-id", reqID).
			Error("Channel query failed on call")
		return err
	}
	if resp.IsError() {
		respError := resp.Error().(*goutils.RestAPIBaseResponse)
		var err error
		if respError.Error != nil {
			err = fmt.Errorf(respError.Error.Detail)
		} else {
			err = fmt.Errorf("status code %d", resp.StatusCode())
		}
		log.
			WithError(err).
			WithFields(logTags).
			WithField("request-id", reqID).
			Error("Channel query failed")
		return err
	}
	var existingChannels api.ChannelInfoListResponse
	if err := json.Unmarshal(resp.Body(), &existingChannels); err != nil {
		log.WithError(err).WithFields(logTags).Error("Failed to parse channel query response")
		return err
	} else if err := validate.Struct(&existingChannels); err != nil {
		log.WithError(err).WithFields(logTags).Error("Invalid channel query response")
		return err
	}

	channelByName := map[string]common.Channel{}
	for _, channel := range existingChannels.Channels {
		channelByName[channel.Name] = channel
	}

	// Go through each channel
	for _, channel := range definitionFile.Channels {
		payload, _ := json.Marshal(&channel)
		// Check whether a channel already exists
		if _, ok := channelByName[channel.Name]; ok {
			log.
				WithFields(logTags).
				WithField("channel", string(payload)).
				Info("Channel already exists")
			continue
		}

		reqID = ulid.Make().String()

		// Define the missing channel
		resp, err := client.R().
			// Set request header
			SetHeader(cmdArgs.RequestIDHeader, reqID).
			// Set request payload
			SetBody(payload).
			// Setup error parsing
			SetError(goutils.RestAPIBaseResponse{}).
			Post(targetURL.String())

		if err != nil {
			log.
				WithError(err).
				WithFields(logTags).
				WithField("channel", string(payload)).
				WithField("request-id", reqID).
				Error("Channel define failed on call")
			return err
		}

		if resp.IsError() {
			respError := resp.Error().(*goutils.RestAPIBaseResponse)
			var err error
			if respError.Error != nil {
				err = fmt.Errorf(respError.Error.Detail)
			} else {
				err = fmt.Errorf("status code %d", resp.StatusCode())
			}
			log.
				WithError(err).
				WithFields(logTags).
				WithField("channel", string(payload)).
				WithField("request-id", reqID).
				Error("Channel define failed")
			return err
		}

		log.
			WithFields(logTags).
			WithField("channel", string(payload)).
			WithField("request-id", reqID).
			Info("Channel defined")
	}

	return nil
}
