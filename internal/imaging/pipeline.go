package imaging

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/media"
)

type Input struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is the file to upload plus what was learnt about it on the way.
type Result struct {
	Data         []byte
	Filename     string
	ContentType  string
	OriginalSize int64
	FinalSize    int64
	Converted    bool
	Resized      bool
	Date         string
	Location     string
	GPS          *Coordinates
}

type Pipeline struct {
	geocoder port.Geocoder
	heic     HEICConverter
	resizer  *Resizer
}

// NewPipeline builds an image pipeline. geocoder and heic may be nil: locations
// are then never resolved and HEIC files are rejected.
func NewPipeline(geocoder port.Geocoder, heic HEICConverter, resizer *Resizer) *Pipeline {
	if resizer == nil {
		resizer = NewResizer(nil)
	}
	return &Pipeline{geocoder: geocoder, heic: heic, resizer: resizer}
}

// Process prepares a local file for upload. Only a failed HEIC conversion is an error;
// metadata, geocoding and resize failures leave the corresponding output empty or untouched.
func (p *Pipeline) Process(ctx context.Context, in Input) (*Result, error) {
	res := &Result{
		Data:         in.Data,
		Filename:     in.Filename,
		ContentType:  media.NormaliseContentType(in.ContentType),
		OriginalSize: int64(len(in.Data)),
	}

	if media.MatchesSignature("image/jpeg", in.Data) {
		exif := ExtractEXIF(in.Data)
		res.Date = exif.Date
		res.GPS = exif.GPS
	}

	if res.GPS != nil && p.geocoder != nil {
		place, err := p.geocoder.ReverseGeocode(ctx, res.GPS.Latitude, res.GPS.Longitude)
		if err != nil {
			logger.Warnf(ctx, "reverse geocoding failed for %q: %v", in.Filename, err)
		} else {
			res.Location = place
		}
	}

	if IsHEIC(in.Filename, res.ContentType) {
		if p.heic == nil {
			return nil, ErrHEICConversion
		}
		converted, err := p.heic.Convert(ctx, res.Data)
		if err != nil {
			logger.Errorf(ctx, "HEIC conversion failed for %q: %v", in.Filename, err)
			return nil, ErrHEICConversion
		}
		res.Data = converted
		res.ContentType = "image/jpeg"
		res.Converted = true
	}

	if resizable(res.ContentType) {
		out, err := p.resizer.Resize(res.Data, res.ContentType)
		if err != nil {
			logger.Warnf(ctx, "resize failed for %q, keeping original bytes: %v", in.Filename, err)
		} else if out.Reencoded {
			res.Data = out.Data
			res.ContentType = out.ContentType
			res.Resized = true
		}
	}

	res.FinalSize = int64(len(res.Data))
	if res.ContentType != media.NormaliseContentType(in.ContentType) {
		res.Filename = renameForType(in.Filename, res.ContentType)
	}

	logger.Infof(ctx, "✅  Prepared %q: %d -> %d bytes (converted=%t, resized=%t)",
		res.Filename, res.OriginalSize, res.FinalSize, res.Converted, res.Resized)
	return res, nil
}

// resizable excludes GIF, which would lose its animation, and non-image files.
func resizable(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func renameForType(filename, contentType string) string {
	ext, err := media.MimeTypeToExtension(contentType)
	if err != nil {
		return filename
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s%s", base, ext)
}
