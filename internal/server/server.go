package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/sme-valuation/internal/config"
	"github.com/iwvelando/sme-valuation/internal/engine"
	"github.com/iwvelando/sme-valuation/internal/model"
	"github.com/iwvelando/sme-valuation/internal/valuation"
	"github.com/iwvelando/sme-valuation/pkg/constants"
	"github.com/iwvelando/sme-valuation/pkg/output"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RunIDHeader carries the identifier assigned to each valuation run.
const RunIDHeader = "X-Run-ID"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

type valuationOptions struct {
	ApplyMaturityAdjustment *bool
}

// NewHandler constructs the HTTP handler that serves the valuation API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Valuation from an uploaded YAML file
	mux.HandleFunc("/api/valuation", h.handleValuation)

	// Valuation from a JSON document sent by an editor
	mux.HandleFunc("/api/editor/valuation", h.handleValuationEditor)

	// Config serialization for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type valuationResponse struct {
	RunID      string         `json:"runId"`
	Report     *model.Report  `json:"report,omitempty"`
	Verdict    string         `json:"verdict,omitempty"`
	CSV        string         `json:"csv,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
	Error      string         `json:"error,omitempty"`
	Duration   string         `json:"duration"`
	Config     map[string]any `json:"config,omitempty"`
	ConfigYAML string         `json:"configYaml,omitempty"`
}

func (h *handler) handleValuation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleValuation"
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runValuation(w, configBytes, configMap, start, op, valuationOptions{})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleValuationEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleValuationEditor"
	start := time.Now()

	payload, err := h.decodePayload(w, r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]any)
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return
		}
		configPayload = cfgMap
	}

	var options valuationOptions
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]any)
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid options payload: expected object", op)
			return
		}
		if raw, ok := optsMap["applyMaturityAdjustment"]; ok {
			apply, err := cast.ToBoolE(raw)
			if err != nil {
				h.respondErrorWithOp(w, http.StatusBadRequest,
					fmt.Sprintf("invalid applyMaturityAdjustment option: %v", err), op)
				return
			}
			options.ApplyMaturityAdjustment = &apply
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), op)
		return
	}

	h.runValuation(w, configBytes, configMap, start, op, options)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleConfigExport"
	payload, err := h.decodePayload(w, r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = make(map[string]any)
	}
	return payload, nil
}

// Sections of an exported configuration, in document order. Unknown keys
// follow alphabetically.
var configSectionOrder = []string{"logging", "output", "company", "historical", "debts", "scenario"}

func marshalOrderedConfigYAML(payload map[string]any) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configSectionOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value any
}

func (o orderedConfig) MarshalYAML() (any, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runValuation(w http.ResponseWriter, configBytes []byte, configMap map[string]any, start time.Time, op string, opts valuationOptions) {
	runID := uuid.NewString()
	logger := h.logger.With(zap.String("runId", runID))
	w.Header().Set(RunIDHeader, runID)

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	input, conversionWarnings := cfg.ToInput()
	warnings = appendUnique(warnings, conversionWarnings...)
	if opts.ApplyMaturityAdjustment != nil {
		input.Scenario.ApplyMaturityAdjustment = *opts.ApplyMaturityAdjustment
	}

	status := http.StatusOK
	report, err := engine.Run(logger, input)
	response := valuationResponse{
		RunID:      runID,
		Report:     report,
		Warnings:   warnings,
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}
	if err != nil {
		var invalid *valuation.InvalidValuationError
		if !errors.As(err, &invalid) || report == nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute valuation: %v", err), op)
			return
		}
		status = http.StatusUnprocessableEntity
		response.Error = err.Error()
	}
	if report != nil {
		response.Verdict = report.Valuation.Verdict.Label()
		var csvBuf bytes.Buffer
		if csvErr := output.CSVFormat(&csvBuf, report); csvErr != nil {
			logger.Warn("failed to render CSV",
				zap.String("op", op),
				zap.Error(csvErr),
			)
		} else {
			response.CSV = csvBuf.String()
		}
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()
	if response.Config == nil {
		response.Config = make(map[string]any)
	}

	logger.Info("valuation computed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("company", input.Profile.Name),
		zap.Int("years", len(input.Historical.Years)),
		zap.Int("warnings", len(response.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, status, response)
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

func decodeYAMLToMap(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]any), nil
	}

	var result map[string]any
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("valuation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
