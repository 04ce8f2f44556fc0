// SPDX-FileCopyrightText: 2025 The gcpkit authors
//
// SPDX-License-Identifier: Apache-2.0

package version

// Version is the released version of gcpkit. It is meant to be set via
// -ldflags during build time.
var Version = "v0.1.0-dev"
