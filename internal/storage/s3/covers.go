package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/vincent-petithory/dataurl"
)

const coverPrefix = "covers/"

var extByType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// PutCover uploads the image in dataURI under covers/ and returns its
// public URL.
func (s *S3Client) PutCover(ctx context.Context, bookID, dataURI string) (string, error) {
	du, err := dataurl.DecodeString(dataURI)
	if err != nil {
		return "", fmt.Errorf("s3: decode cover: %w", err)
	}
	ct := du.MediaType.ContentType()
	if !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("s3: cover is %s, not an image", ct)
	}
	ext, ok := extByType[ct]
	if !ok {
		ext = "bin"
	}
	key := fmt.Sprintf("%s%s-%s.%s", coverPrefix, safeSegment(bookID), uuid.NewString(), ext)

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(du.Data),
		ContentType:   aws.String(ct),
		ContentLength: aws.Int64(int64(len(du.Data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put cover %s: %w", key, err)
	}

	return strings.TrimRight(s.PublicBase, "/") + "/" + key, nil
}

// DiscardCover removes a cover previously stored by PutCover. URLs that
// point elsewhere are ignored.
func (s *S3Client) DiscardCover(ctx context.Context, coverURL string) error {
	key, ok := s.keyFor(coverURL)
	if !ok {
		return nil
	}
	return s.DeleteObject(ctx, key)
}

// keyFor maps a cover URL back to its object key. It accepts the public
// base form and direct bucket URLs (path or virtual-host style, presigned or
// not); anything outside covers/ is not ours.
func (s *S3Client) keyFor(coverURL string) (string, bool) {
	if coverURL == "" || strings.HasPrefix(coverURL, "data:") {
		return "", false
	}
	if s.PublicBase != "" {
		if rest, ok := strings.CutPrefix(coverURL, strings.TrimRight(s.PublicBase, "/")+"/"); ok {
			rest, _, _ = strings.Cut(rest, "?")
			return coverKey(rest)
		}
	}
	if s.endpoint == nil {
		return "", false
	}
	u, err := url.Parse(coverURL)
	if err != nil {
		return "", false
	}
	path := strings.TrimPrefix(u.EscapedPath(), "/")
	if p, err := url.PathUnescape(path); err == nil {
		path = p
	}
	switch {
	case strings.EqualFold(u.Host, s.endpoint.Host):
		rest, ok := strings.CutPrefix(path, s.Bucket+"/")
		if !ok {
			return "", false
		}
		return coverKey(rest)
	case strings.EqualFold(u.Host, s.Bucket+"."+s.endpoint.Host):
		return coverKey(path)
	}
	return "", false
}

func coverKey(k string) (string, bool) {
	if !strings.HasPrefix(k, coverPrefix) || len(k) == len(coverPrefix) || strings.Contains(k, "..") {
		return "", false
	}
	return k, true
}

func safeSegment(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "book"
	}
	return b.String()
}
