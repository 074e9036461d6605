package operation

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("unknown operation")

type Kind struct {
	s string
}

var (
	PdfToImage  = Kind{"pdf_to_image"}
	PdfToWord   = Kind{"pdf_to_word"}
	ImageToJpg  = Kind{"image_to_jpg"}
	ImageToPng  = Kind{"image_to_png"}
	ImageToBmp  = Kind{"image_to_bmp"}
	ImageToWbmp = Kind{"image_to_wbmp"}
	ImageToIco  = Kind{"image_to_ico"}
	ImageToSvg  = Kind{"image_to_svg"}
	ResizeImage = Kind{"resize_image"}
	ImageToWebp = Kind{"image_to_webp"}
	ImageToAvif = Kind{"image_to_avif"}
)

func (k Kind) String() string {
	return k.s
}

func (k Kind) IsZero() bool {
	return k.s == ""
}

// Accept filters shown on the upload form.
const (
	AcceptPDF   = ".pdf"
	AcceptImage = "image/*"
)

type Operation struct {
	Kind     Kind
	Title    string
	Subtitle string
	Button   string
	Accept   string
}

func (o Operation) AcceptsPDF() bool {
	return o.Accept == AcceptPDF
}

// operations is fixed at init and never mutated.
var operations = []Operation{
	{PdfToImage, "PDF to Image", "Convert your PDF file into high-quality images", "Upload PDF", AcceptPDF},
	{PdfToWord, "PDF to Word", "Convert your PDF file into editable Word documents", "Upload PDF", AcceptPDF},
	{ImageToJpg, "Image to JPG", "Convert any image into JPG format", "Upload Image", AcceptImage},
	{ImageToPng, "Image to PNG", "Convert any image into PNG format", "Upload Image", AcceptImage},
	{ImageToBmp, "Image to BMP", "Convert any image into BMP format", "Upload Image", AcceptImage},
	{ImageToWbmp, "Image to WBMP", "Convert any image into WBMP format", "Upload Image", AcceptImage},
	{ImageToIco, "Image to ICO", "Convert any image into ICO format", "Upload Image", AcceptImage},
	{ImageToSvg, "Image to SVG", "Convert any image into SVG format (experimental)", "Upload Image", AcceptImage},
	{ResizeImage, "Resize Image", "Resize your images to custom dimensions", "Upload Image", AcceptImage},
	{ImageToWebp, "Image to WEBP", "Convert your images into WEBP format", "Upload Image", AcceptImage},
	{ImageToAvif, "Image to AVIF", "Convert your images into AVIF format", "Upload Image", AcceptImage},
}

var byID = func() map[string]Operation {
	m := make(map[string]Operation, len(operations))
	for _, op := range operations {
		m[op.Kind.s] = op
	}
	return m
}()

// All returns the operations in display order.
func All() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

func Lookup(id string) (Operation, error) {
	op, ok := byID[id]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return op, nil
}

func MakeFromString(s string) (Kind, error) {
	op, err := Lookup(s)
	if err != nil {
		return Kind{}, err
	}
	return op.Kind, nil
}
