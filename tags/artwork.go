package tags

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	flac "github.com/go-flac/go-flac"
)

var ErrUnsupported = errors.New("filetype unsupported")

// StripArtwork removes every embedded picture from the file.
func StripArtwork(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return stripMP3(path)
	case ".flac":
		return stripFLAC(path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

// EmbedArtwork replaces the file's embedded pictures with a single front
// cover.
func EmbedArtwork(path string, data []byte) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return embedMP3(path, data)
	case ".flac":
		return embedFLAC(path, data)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

func stripMP3(path string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3: %w", err)
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3: %w", err)
	}
	return nil
}

func embedMP3(path string, data []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3: %w", err)
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    http.DetectContentType(data),
		PictureType: id3v2.PTFrontCover,
		Picture:     data,
	})
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3: %w", err)
	}
	return nil
}

func stripFLAC(path string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	before := len(f.Meta)
	f.Meta = slices.DeleteFunc(f.Meta, func(b *flac.MetaDataBlock) bool {
		return b.Type == flac.Picture
	})
	if len(f.Meta) == before {
		return nil
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	return nil
}

func embedFLAC(path string, data []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	f.Meta = slices.DeleteFunc(f.Meta, func(b *flac.MetaDataBlock) bool {
		return b.Type == flac.Picture
	})
	pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", data, http.DetectContentType(data))
	if err != nil {
		return fmt.Errorf("new picture block: %w", err)
	}
	block := pic.Marshal()
	f.Meta = append(f.Meta, &block)

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	return nil
}
