package returns

import (
	"encoding/base64"

	"github.com/parcelbridge/retoure/pkg/returns/dhl"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// PDFCombiner merges PDF documents into one multi-page document.
type PDFCombiner interface {
	Combine(documents [][]byte) ([]byte, error)
}

// ResponseDataMapper converts web service confirmations and recorded
// errors into the response objects consumed by the storefront and admin
// panel.
type ResponseDataMapper struct {
	combiner PDFCombiner
	logger   *otelzap.Logger
}

// NewResponseDataMapper creates a response data mapper.
func NewResponseDataMapper(combiner PDFCombiner, logger *otelzap.Logger) *ResponseDataMapper {
	return &ResponseDataMapper{
		combiner: combiner,
		logger:   logger,
	}
}

// CreateLabelResponse maps a booking confirmation to a label response.
// When the confirmation carries both a shipping label and a QR code they
// are merged into one document; a single document is used verbatim. A
// failed merge degrades to empty label content so the index accounting
// of the pipeline is preserved.
func (m *ResponseDataMapper) CreateLabelResponse(requestIndex string, confirmation *dhl.Confirmation) *LabelResponse {
	labelData := m.decode(requestIndex, "label", confirmation.LabelData)
	qrData := m.decode(requestIndex, "qr", confirmation.QRLabelData)

	var documents [][]byte
	for _, data := range [][]byte{labelData, qrData} {
		if len(data) > 0 {
			documents = append(documents, data)
		}
	}

	content, err := m.combiner.Combine(documents)
	if err != nil {
		m.logger.Error("Combining label documents failed",
			zap.String("request_index", requestIndex),
			zap.Error(err),
		)
		content = nil
	}

	return &LabelResponse{
		RequestIndex:   requestIndex,
		TrackingNumber: confirmation.ShipmentNumber,
		LabelContent:   content,
		LabelData:      labelData,
		QRLabelData:    qrData,
	}
}

// CreateErrorResponse maps an error message to an error response.
func (m *ResponseDataMapper) CreateErrorResponse(requestIndex, message, shipmentReference string) *ErrorResponse {
	return &ErrorResponse{
		RequestIndex:      requestIndex,
		Message:           message,
		ShipmentReference: shipmentReference,
	}
}

func (m *ResponseDataMapper) decode(requestIndex, kind, data string) []byte {
	if data == "" {
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		m.logger.Error("Discarding undecodable label data",
			zap.String("request_index", requestIndex),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return nil
	}

	return decoded
}
