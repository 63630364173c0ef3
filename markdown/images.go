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


package markdown

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// embeddedImagePattern matches markdown images with inline base64 data URIs:
// ![alt](data:image/<format>;base64,<data>)
var embeddedImagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(data:image/([^;]+);base64,([^)]+)\)`)

// EmbeddedImage is an image found inline in markdown as a base64 data URI.
type EmbeddedImage struct {
	// Index is the 1-based position of the image within the document.
	Index int
	// AltText is the markdown alt text, possibly empty.
	AltText string
	// Format is the declared image format (png, jpeg, ...), lowercased.
	Format string
	// Data is the decoded image bytes.
	Data []byte
	// start and end bound the full markdown image expression.
	start, end int
	// Description is filled in after the image has been described.
	Description string
}

// ExtractImages finds all base64-embedded images in the markdown.
// Images whose base64 payload does not decode are skipped.
func ExtractImages(markdown string) []*EmbeddedImage {
	matches := embeddedImagePattern.FindAllStringSubmatchIndex(markdown, -1)

	var images []*EmbeddedImage
	for _, m := range matches {
		altText := markdown[m[2]:m[3]]
		format := strings.ToLower(markdown[m[4]:m[5]])
		encoded := markdown[m[6]:m[7]]

		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}

		images = append(images, &EmbeddedImage{
			Index:   len(images) + 1,
			AltText: altText,
			Format:  format,
			Data:    data,
			start:   m[0],
			end:     m[1],
		})
	}
	return images
}

// ContextAroundImage returns up to linesBefore lines preceding and
// linesAfter lines following the image expression, formatted for use as
// descriptive context.
func ContextAroundImage(markdown string, img *EmbeddedImage, linesBefore, linesAfter int) string {
	// Trim the newline touching the image expression so the boundary does
	// not produce an empty line that eats a context slot.
	before := strings.TrimSuffix(markdown[:img.start], "\n")
	after := strings.TrimPrefix(markdown[img.end:], "\n")

	beforeLines := strings.Split(before, "\n")
	if len(beforeLines) > linesBefore {
		beforeLines = beforeLines[len(beforeLines)-linesBefore:]
	}

	afterLines := strings.Split(after, "\n")
	if len(afterLines) > linesAfter {
		afterLines = afterLines[:linesAfter]
	}

	contextBefore := strings.TrimSpace(strings.Join(beforeLines, "\n"))
	contextAfter := strings.TrimSpace(strings.Join(afterLines, "\n"))
	if contextBefore == "" && contextAfter == "" {
		return ""
	}

	return strings.TrimSpace(fmt.Sprintf(
		"Text before image:\n%s\n\nText after image:\n%s",
		contextBefore, contextAfter,
	))
}

// ReplaceImagesWithDescriptions replaces each image expression with its
// generated description. Images are replaced back-to-front so earlier
// offsets stay valid.
func ReplaceImagesWithDescriptions(markdown string, images []*EmbeddedImage) string {
	result := markdown
	for i := len(images) - 1; i >= 0; i-- {
		img := images[i]
		description := img.Description
		if description == "" {
			description = "No description available."
		}
		replacement := fmt.Sprintf("**[Image Description]**\n\n%s", description)
		result = result[:img.start] + replacement + result[img.end:]
	}
	return result
}
