package media

const (
	ContentTypeApplicationJson = "application/json"
	ContentTypeApplicationPdf  = "application/pdf"
)
