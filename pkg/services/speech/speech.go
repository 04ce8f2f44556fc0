// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

// Package speech provides a thin client for the Google Cloud Speech-to-Text
// service.
package speech

import (
	"context"
	"log/slog"

	gspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/gcpkit/gcpkit/pkg/credentials"
	"github.com/gcpkit/gcpkit/pkg/gcperr"
	"github.com/gcpkit/gcpkit/pkg/metrics"
)

const serviceName = "speech"

// DefaultLanguageCode is the language used for recognition when the options
// do not specify one.
const DefaultLanguageCode = "en-US"

// RecognitionOptions configures a recognition request.
type RecognitionOptions struct {
	// Encoding is the audio encoding. The zero value lets the service
	// detect the encoding for self-describing formats such as FLAC and
	// WAV.
	Encoding speechpb.RecognitionConfig_AudioEncoding

	// SampleRateHertz is the sample rate of the audio. Optional for
	// self-describing formats.
	SampleRateHertz int32

	// LanguageCode is the BCP-47 language tag of the spoken language.
	// Defaults to [DefaultLanguageCode].
	LanguageCode string
}

// config builds the vendor recognition config from the options.
func (o RecognitionOptions) config() *speechpb.RecognitionConfig {
	language := o.LanguageCode
	if language == "" {
		language = DefaultLanguageCode
	}

	return &speechpb.RecognitionConfig{
		Encoding:        o.Encoding,
		SampleRateHertz: o.SampleRateHertz,
		LanguageCode:    language,
	}
}

// Client is a thin wrapper over the Speech-to-Text SDK client.
type Client struct {
	conf   *credentials.Config
	logger *slog.Logger
	client *gspeech.Client
}

// New creates a new Speech-to-Text client. When conf is nil, a default config
// with Application Default Credentials is used.
func New(ctx context.Context, conf *credentials.Config) (*Client, error) {
	if conf == nil {
		var err error
		conf, err = credentials.DefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
	}

	c, err := gspeech.NewClient(ctx, conf.ClientOptions()...)
	if err != nil {
		return nil, gcperr.Translate(err)
	}

	client := &Client{
		conf:   conf,
		logger: conf.Logger(),
		client: c,
	}

	return client, nil
}

// Close closes the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}

// wrap records the API call and translates the vendor error.
func (c *Client) wrap(op string, err error) error {
	metrics.ObserveCall(serviceName, op, err)

	return gcperr.Translate(err)
}

// RecognizeURI transcribes the audio stored at the given gs:// URI and
// returns the top transcript of each recognized segment.
func (c *Client) RecognizeURI(ctx context.Context, uri string, opts RecognitionOptions) ([]string, error) {
	audio := &speechpb.RecognitionAudio{
		AudioSource: &speechpb.RecognitionAudio_Uri{Uri: uri},
	}

	return c.recognize(ctx, audio, opts)
}

// RecognizeBytes transcribes the given inline audio data and returns the top
// transcript of each recognized segment.
func (c *Client) RecognizeBytes(ctx context.Context, data []byte, opts RecognitionOptions) ([]string, error) {
	audio := &speechpb.RecognitionAudio{
		AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
	}

	return c.recognize(ctx, audio, opts)
}

func (c *Client) recognize(ctx context.Context, audio *speechpb.RecognitionAudio, opts RecognitionOptions) ([]string, error) {
	req := &speechpb.RecognizeRequest{
		Config: opts.config(),
		Audio:  audio,
	}

	resp, err := c.client.Recognize(ctx, req)
	if err != nil {
		return nil, c.wrap("Recognize", err)
	}

	transcripts := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}

		transcripts = append(transcripts, alternatives[0].GetTranscript())
	}

	metrics.ObserveCall(serviceName, "Recognize", nil)

	return transcripts, nil
}
