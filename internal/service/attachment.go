package service

import (
	"encoding/json"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"surat-portal/internal/model"
)

// Column widths of submission_attachments. Longer values are treated like
// values of the wrong type.
const (
	maxPublicIDLen = 255
	maxMetaLen     = 40
)

// NormalizeAttachments turns the client-supplied attachment list into
// records. Entries without a usable url and publicId are dropped; optional
// metadata of the wrong JSON type is dropped field by field. Anything that
// is not an array yields no attachments. Nothing here fails the request.
func NormalizeAttachments(raw json.RawMessage) []model.SubmissionAttachment {
	if len(raw) == 0 {
		return nil
	}

	var candidates []json.RawMessage
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil
	}

	out := make([]model.SubmissionAttachment, 0, len(candidates))
	for _, c := range candidates {
		var obj map[string]any
		if err := json.Unmarshal(c, &obj); err != nil || obj == nil {
			continue
		}

		rawURL, ok := nonEmptyString(obj["url"])
		if !ok || !isAbsoluteURL(rawURL) {
			continue
		}
		publicID, ok := nonEmptyString(obj["publicId"])
		if !ok || utf8.RuneCountInString(publicID) > maxPublicIDLen {
			continue
		}

		att := model.SubmissionAttachment{
			Position: len(out),
			URL:      rawURL,
			PublicID: publicID,
			Format:   optionalString(obj["format"], maxMetaLen),
			Type:     optionalString(obj["type"], maxMetaLen),
		}
		if n, ok := wholeNumber(obj["bytes"]); ok {
			att.Bytes = &n
		}
		if n, ok := wholeNumber(obj["width"]); ok && n <= math.MaxInt32 {
			w := int(n)
			att.Width = &w
		}
		if n, ok := wholeNumber(obj["height"]); ok && n <= math.MaxInt32 {
			h := int(n)
			att.Height = &h
		}
		out = append(out, att)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func optionalString(v any, maxLen int) *string {
	s, ok := v.(string)
	if !ok || utf8.RuneCountInString(s) > maxLen {
		return nil
	}
	return &s
}

// wholeNumber accepts non-negative JSON numbers without a fractional part
// that fit in an int64. 2^63 and above do not.
func wholeNumber(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < 0 || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
