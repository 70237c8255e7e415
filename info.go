package srafetch

import "encoding/json"

// ProjectInfo returns a quick summary about a project from a single
// search call: the server-side result count estimate and the query
// translation.
func ProjectInfo(client Client, project string) (map[string]interface{}, error) {
	if project == "" {
		return nil, ErrNoProject
	}
	body, err := client.Do(Request{Op: "search", Term: project})
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Result struct {
			Count       string `json:"count"`
			Translation string `json:"querytranslation"`
		} `json:"esearchresult"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errorf(KindPayload, "search: %v", err)
	}
	result := map[string]interface{}{
		"project": project,
		"count":   envelope.Result.Count,
	}
	if envelope.Result.Translation != "" {
		result["translation"] = envelope.Result.Translation
	}
	return result, nil
}
