package model

import "io"

type ConvertRequest struct {
	Operation string
	Filename  string
	Size      int64
	File      io.Reader

	Width  string
	Height string
}

// ConvertResponse owns Body. Closing it releases the request workspace.
type ConvertResponse struct {
	Type               string
	ContentLength      int64
	ContentDisposition string

	Body io.ReadCloser
}
