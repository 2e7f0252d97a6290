package dto

type PresignUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type PresignUploadResponse struct {
	Url string `json:"url"`
	Key string `json:"key"`
}

type PresignDownloadRequest struct {
	Key string `json:"key"`
}

type PresignDownloadResponse struct {
	Url string `json:"url"`
}

func ParsePresignUploadRequest(body []byte) (*PresignUploadRequest, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	req := &PresignUploadRequest{}
	if s, ok, err := stringField(obj, "filename"); err != nil {
		return nil, err
	} else if ok {
		req.Filename = s
	}
	if s, ok, err := stringField(obj, "contentType"); err != nil {
		return nil, err
	} else if ok {
		req.ContentType = s
	}

	return req, nil
}
