package course

import (
	"bytes"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core"
)

// Upload kinds, matching the backend upload endpoints.
const (
	UploadVideo    UploadKind = "video"
	UploadAudio    UploadKind = "audio"
	UploadDocument UploadKind = "document"
	UploadImage    UploadKind = "image"
)

// sniffLen is the number of leading bytes read to detect a file type.
const sniffLen = 3072

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrNoUploadKind    = errors.New("lesson type does not accept uploads")

	UploadKinds = []UploadKind{UploadVideo, UploadAudio, UploadDocument, UploadImage}
)

type UploadKind string

func (k UploadKind) IsValid() bool {
	for _, uk := range UploadKinds {
		if k == uk {
			return true
		}
	}
	return false
}

// KindForLessonType returns the upload endpoint used for a lesson type. Quizzes take no upload.
func KindForLessonType(t LessonType) (UploadKind, error) {
	switch t {
	case LessonVideo:
		return UploadVideo, nil
	case LessonAudio:
		return UploadAudio, nil
	case LessonPDF:
		return UploadDocument, nil
	}
	return "", ErrNoUploadKind
}

// UploadLimits holds the max accepted file size per kind.
type UploadLimits map[UploadKind]int64

func NewUploadLimits(conf core.UploadConfig) UploadLimits {
	return UploadLimits{
		UploadVideo:    conf.MaxVideoSize,
		UploadAudio:    conf.MaxAudioSize,
		UploadDocument: conf.MaxDocumentSize,
		UploadImage:    conf.MaxImageSize,
	}
}

// CheckUpload rejects files that are empty, too large or of the wrong type for kind.
// The returned File streams the whole original content, detected bytes included.
func (lims UploadLimits) CheckUpload(kind UploadKind, file File) (File, *mimetype.MIME, error) {
	if !kind.IsValid() {
		return file, nil, errors.Wrapf(ErrInvalidFileType, "unknown upload kind %q", kind)
	}
	if max, ok := lims[kind]; ok && max > 0 && file.Size > max {
		return file, nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", file.Name, max)
	}
	if file.Content == nil {
		return file, nil, ErrEmptyFile
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return file, nil, errors.Wrap(err, "reading file")
	}
	if n == 0 {
		return file, nil, ErrEmptyFile
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !acceptsMIME(kind, mtype) {
		return file, mtype, errors.Wrapf(ErrInvalidFileType, "%s is %s", file.Name, mtype.String())
	}
	file.Content = io.MultiReader(bytes.NewReader(head), file.Content)
	return file, mtype, nil
}

func acceptsMIME(kind UploadKind, mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		mime := m.String()
		switch kind {
		case UploadVideo:
			if strings.HasPrefix(mime, "video/") {
				return true
			}
		case UploadAudio:
			if strings.HasPrefix(mime, "audio/") {
				return true
			}
		case UploadDocument:
			if m.Is("application/pdf") {
				return true
			}
		case UploadImage:
			if strings.HasPrefix(mime, "image/") {
				return true
			}
		}
	}
	return false
}
