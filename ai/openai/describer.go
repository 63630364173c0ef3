// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docflow/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ImageDescriber implements ai.ImageDescriber using OpenAI-compatible
// vision chat APIs.
type ImageDescriber struct {
	client llms.Model
	logger *slog.Logger
}

// newImageDescriber is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newImageDescriber(config *ai.Config) (*ImageDescriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for vision chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.DescriberHost),
		openai.WithToken("none"),
		openai.WithModel(config.DescriberModel),
	)
	if err != nil {
		return nil, err
	}

	return &ImageDescriber{
		client: client,
		logger: slog.Default().With("component", "openai-describer"),
	}, nil
}

// NewImageDescriber creates a new image describer using the provided configuration.
//
// Returns ai.ImageDescriber interface to enforce abstraction.
func NewImageDescriber(config *ai.Config) (ai.ImageDescriber, error) {
	return newImageDescriber(config)
}

// DescribeImage generates a detailed description of the image using a
// vision-capable LLM. Surrounding document text, when provided, is folded
// into the prompt so the description matches how the image is referenced.
func (d *ImageDescriber) DescribeImage(ctx context.Context, img ai.Image, contextText string) (string, error) {
	format := strings.ToLower(img.Format)
	if !ai.SupportedImageFormat(format) {
		return "", fmt.Errorf("unsupported image format: %q", img.Format)
	}
	if len(img.Data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	d.logger.Debug("describing image", "format", format, "bytes", len(img.Data), "contextLength", len(contextText))

	prompt := buildDescriptionPrompt(contextText)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
				llms.BinaryPart("image/"+format, img.Data),
			},
		},
	}

	resp, err := d.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		d.logger.Error("failed to generate image description", "err", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("describer returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
