package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.NRGBA{R: 200, G: 10, B: 10, A: 128})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeDataURL(t *testing.T, url string) []byte {
	t.Helper()
	raw, err := Decode(url)
	require.NoError(t, err)
	return raw
}

func TestDecode(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	raw, err := Decode("data:text/plain;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))

	raw, err = Decode(base64.RawURLEncoding.EncodeToString([]byte("hello?>")))
	require.NoError(t, err)
	assert.Equal(t, "hello?>", string(raw))

	_, err = Decode("data:image/png;base64")
	assert.ErrorIs(t, err, utils.ErrUnsupportedMediaType)

	_, err = Decode("   ")
	assert.ErrorIs(t, err, utils.ErrUnsupportedMediaType)

	_, err = Decode("!!not base64!!")
	assert.ErrorIs(t, err, utils.ErrUnsupportedMediaType)
}

func TestProcessImageResizesLargeImages(t *testing.T) {
	out, err := ProcessImage("data:image/png;base64," + pngBase64(t, 3840, 1000))
	require.NoError(t, err)
	assert.Contains(t, out, "data:image/jpeg;base64,")

	img, err := jpeg.Decode(bytes.NewReader(decodeDataURL(t, out)))
	require.NoError(t, err)
	assert.Equal(t, 1920, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestProcessImageKeepsSmallDimensions(t *testing.T) {
	out, err := Process(models.MediaImage, pngBase64(t, 640, 480))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(decodeDataURL(t, out)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 640, 480), img.Bounds())
}

func TestProcessImageRejectsNonImages(t *testing.T) {
	_, err := ProcessImage(base64.StdEncoding.EncodeToString([]byte("%PDF-1.4\n%fake")))
	assert.ErrorIs(t, err, utils.ErrUnsupportedMediaType)
}

func TestProcessImageRejectsOversize(t *testing.T) {
	big := make([]byte, MaxImageBytes+1)
	_, err := ProcessImage(base64.StdEncoding.EncodeToString(big))
	assert.ErrorIs(t, err, utils.ErrFileTooLarge)
}

func TestProcessVideo(t *testing.T) {
	mp4 := []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0, 0, 2, 0, 'i', 's', 'o', 'm', 'i', 's', 'o', '2'}
	mp4 = append(mp4, make([]byte, 64)...)

	out, err := Process(models.MediaVideo, base64.StdEncoding.EncodeToString(mp4))
	require.NoError(t, err)
	assert.Equal(t, mp4, decodeDataURL(t, out))
	assert.Contains(t, out, "data:video/mp4;base64,")

	_, err = ProcessVideo(pngBase64(t, 10, 10))
	assert.ErrorIs(t, err, utils.ErrUnsupportedMediaType)

	_, err = Process(models.MediaType("audio"), "AAAA")
	assert.ErrorIs(t, err, utils.ErrUnsupportedMediaType)
}

func TestFitWithin(t *testing.T) {
	w, h := fitWithin(4000, 3000, MaxWidth, MaxHeight)
	assert.Equal(t, 1440, w)
	assert.Equal(t, 1080, h)

	w, h = fitWithin(100, 50, MaxWidth, MaxHeight)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestProcessDocument(t *testing.T) {
	pdf := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"))
	doc, err := ProcessDocument("data:application/pdf;base64,"+pdf, "lease/notice.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.Equal(t, "notice.pdf", doc.Filename)
	assert.Equal(t, pdf, doc.Base64)

	txt, err := ProcessDocument(base64.StdEncoding.EncodeToString([]byte("Water shut-off on Monday")), "notice.txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", txt.FileType)

	_, err = ProcessDocument(base64.StdEncoding.EncodeToString([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}), "run.bin")
	assert.ErrorIs(t, err, utils.ErrUnsupportedMediaType)

	_, err = ProcessDocument(base64.StdEncoding.EncodeToString(make([]byte, MaxDocumentBytes+1)), "big.pdf")
	assert.ErrorIs(t, err, utils.ErrFileTooLarge)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("Notice.PDF", ""))
	assert.Equal(t, mimeDOCX, ContentTypeFor("", "docx"))
	assert.Equal(t, "image/png", ContentTypeFor("", "image/png"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("archive.zip", ""))
	assert.Equal(t, "pdf", ExtensionFor("application/pdf"))
	assert.Equal(t, "bin", ExtensionFor("application/zip"))
}
