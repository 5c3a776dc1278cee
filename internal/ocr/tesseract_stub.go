//go:build !ocr

package ocr

func newRecognizer(string) (recognizer, error) {
	return nil, ErrOCRNotEnabled
}
