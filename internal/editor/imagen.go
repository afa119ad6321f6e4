package editor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"stitchSightAi/internal/media"
)

// VertexImagen applies edits via the Vertex AI Imagen predict endpoint.
type VertexImagen struct {
	projectID          string
	location           string
	model              string
	apiKey             string
	serviceAccount     string
	serviceAccountJSON string
	uploader           media.Uploader
}

// VertexImagenConfig describes how to connect to Imagen.
type VertexImagenConfig struct {
	ProjectID          string
	Location           string
	Model              string
	APIKey             string
	ServiceAccount     string
	ServiceAccountJSON string
}

// NewVertexImagen wires a VertexImagen client.
func NewVertexImagen(cfg VertexImagenConfig, uploader media.Uploader) *VertexImagen {
	return &VertexImagen{
		projectID:          strings.TrimSpace(cfg.ProjectID),
		location:           strings.TrimSpace(cfg.Location),
		model:              strings.TrimSpace(cfg.Model),
		apiKey:             strings.TrimSpace(cfg.APIKey),
		serviceAccount:     strings.TrimSpace(cfg.ServiceAccount),
		serviceAccountJSON: strings.TrimSpace(cfg.ServiceAccountJSON),
		uploader:           uploader,
	}
}

// Edit runs an Imagen edit request and uploads the result.
func (v *VertexImagen) Edit(ctx context.Context, req EditRequest) (EditResult, error) {
	if v == nil || v.uploader == nil {
		return EditResult{}, fmt.Errorf("editor: imagen client not configured")
	}
	if v.projectID == "" || v.location == "" || v.model == "" {
		return EditResult{}, fmt.Errorf("editor: missing project/location/model")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return EditResult{}, fmt.Errorf("editor: prompt is required")
	}

	encoded, err := prepareBaseImage(ctx, req)
	if err != nil {
		return EditResult{}, err
	}

	instance, err := structpb.NewValue(map[string]any{
		"prompt": req.Prompt,
		"image": map[string]any{
			"bytesBase64Encoded": encoded,
		},
	})
	if err != nil {
		return EditResult{}, err
	}

	params, err := structpb.NewValue(map[string]any{
		"sampleCount": 1,
		"editMode":    "inpainting-free-form",
	})
	if err != nil {
		return EditResult{}, err
	}

	endpoint := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", v.projectID, v.location, v.model)
	options := []option.ClientOption{option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", v.location))}
	if v.serviceAccountJSON != "" {
		options = append(options, option.WithCredentialsJSON([]byte(v.serviceAccountJSON)))
	} else if v.serviceAccount != "" {
		options = append(options, option.WithCredentialsFile(v.serviceAccount))
	} else if v.apiKey != "" {
		options = append(options, option.WithAPIKey(v.apiKey))
	}

	client, err := aiplatform.NewPredictionClient(ctx, options...)
	if err != nil {
		return EditResult{}, fmt.Errorf("editor: prediction client: %w", err)
	}
	defer client.Close()

	resp, err := client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return EditResult{}, fmt.Errorf("editor: predict: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return EditResult{}, fmt.Errorf("editor: empty prediction response")
	}

	field := resp.Predictions[0].GetStructValue().GetFields()["bytesBase64Encoded"]
	if field == nil {
		return EditResult{}, fmt.Errorf("editor: prediction missing bytes")
	}

	data, err := base64.StdEncoding.DecodeString(field.GetStringValue())
	if err != nil {
		return EditResult{}, fmt.Errorf("editor: decode result: %w", err)
	}

	result, err := v.uploader.Upload(ctx, media.UploadInput{
		Filename:    "imagen-edit.png",
		ContentType: "image/png",
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil {
		return EditResult{}, fmt.Errorf("editor: upload edit: %w", err)
	}
	return EditResult{URL: result.URL, Key: result.Key}, nil
}
