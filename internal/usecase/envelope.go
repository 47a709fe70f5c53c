package usecase

import "github.com/cp25sy5-modjot/native-bridge/internal/domain"

// Arguments is the untyped named-argument payload of one call.
type Arguments map[string]any

// ParseArguments accepts only a string-keyed map. A nil payload is treated as
// an empty map so that the missing required key is what gets reported.
func ParseArguments(raw any) (Arguments, error) {
	switch v := raw.(type) {
	case nil:
		return Arguments{}, nil
	case Arguments:
		return v, nil
	case map[string]any:
		return Arguments(v), nil
	}
	return nil, domain.NewError(domain.CodeInvalidArgument, "arguments must be a map of named values, got %T", raw)
}

// RequireString returns the string under key or an INVALID_ARGUMENT error
// whose message starts with label and names the field.
func (a Arguments) RequireString(key, label string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", domain.NewError(domain.CodeInvalidArgument, "%s is required (missing %q)", label, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", domain.NewError(domain.CodeInvalidArgument, "%s is required (%q must be a string, got %T)", label, key, v)
	}
	return s, nil
}

// OptionalString returns nil when key is absent or not a string.
func (a Arguments) OptionalString(key string) *string {
	if s, ok := a[key].(string); ok {
		return &s
	}
	return nil
}

func decodeRecognizeText(args Arguments) (domain.RecognizeTextRequest, error) {
	path, err := args.RequireString("path", "Image path")
	if err != nil {
		return domain.RecognizeTextRequest{}, err
	}
	return domain.RecognizeTextRequest{Path: path}, nil
}

func decodeShareFile(args Arguments) (domain.ShareFileRequest, error) {
	path, err := args.RequireString("path", "File path")
	if err != nil {
		return domain.ShareFileRequest{}, err
	}
	return domain.ShareFileRequest{
		Path:    path,
		Subject: args.OptionalString("subject"),
		Text:    args.OptionalString("text"),
	}, nil
}

func invalidArgument(err error) domain.Outcome {
	if e, ok := domain.AsError(err); ok {
		return domain.Failure(e)
	}
	return domain.Fail(domain.CodeInvalidArgument, "%v", err)
}
