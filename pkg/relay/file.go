package relay

import (
	"encoding/json"
	"fmt"
)

// File is a single entry of a file drop bundle. FileData is a data URI
// (data:<mime>;base64,<payload>) and is relayed untouched.
type File struct {
	FileName string `json:"fileName"`
	FileData string `json:"fileData"`
	FileSize int64  `json:"fileSize"`
}

type Bundle struct {
	Files []File `json:"files"`
}

// ParseBundle decodes a create_room payload
func ParseBundle(data json.RawMessage) (*Bundle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing payload", ErrBadRequest)
	}

	var raw struct {
		Files *[]File `json:"files"`
	}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bundle: %s", ErrBadRequest, err.Error())
	}

	if raw.Files == nil {
		return nil, fmt.Errorf("%w: files are required", ErrBadRequest)
	}

	for i, f := range *raw.Files {
		if f.FileName == "" {
			return nil, fmt.Errorf("%w: file %d has no name", ErrBadRequest, i)
		}

		if f.FileSize < 0 {
			return nil, fmt.Errorf("%w: file %s has a negative size", ErrBadRequest, f.FileName)
		}
	}

	return &Bundle{Files: *raw.Files}, nil
}

type CodeUpdate struct {
	RoomCode string `json:"roomCode"`
	Code     string `json:"code"`
}

// ParseCodeUpdate decodes a send_code_update payload
func ParseCodeUpdate(data json.RawMessage) (*CodeUpdate, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing payload", ErrBadRequest)
	}

	var raw struct {
		RoomCode string  `json:"roomCode"`
		Code     *string `json:"code"`
	}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid code update: %s", ErrBadRequest, err.Error())
	}

	if raw.RoomCode == "" {
		return nil, fmt.Errorf("%w: roomCode is required", ErrBadRequest)
	}

	if raw.Code == nil {
		return nil, fmt.Errorf("%w: code is required", ErrBadRequest)
	}

	return &CodeUpdate{RoomCode: raw.RoomCode, Code: *raw.Code}, nil
}
