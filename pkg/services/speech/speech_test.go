// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package speech

import (
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
)

func TestRecognitionOptionsDefaults(t *testing.T) {
	conf := RecognitionOptions{}.config()

	if conf.LanguageCode != DefaultLanguageCode {
		t.Fatalf("got language %q, want %q", conf.LanguageCode, DefaultLanguageCode)
	}

	if conf.Encoding != speechpb.RecognitionConfig_ENCODING_UNSPECIFIED {
		t.Fatalf("got encoding %v, want unspecified", conf.Encoding)
	}
}

func TestRecognitionOptionsExplicit(t *testing.T) {
	opts := RecognitionOptions{
		Encoding:        speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz: 16000,
		LanguageCode:    "de-DE",
	}

	conf := opts.config()

	if conf.LanguageCode != "de-DE" {
		t.Fatalf("got language %q, want %q", conf.LanguageCode, "de-DE")
	}

	if conf.SampleRateHertz != 16000 {
		t.Fatalf("got sample rate %d, want 16000", conf.SampleRateHertz)
	}
}
