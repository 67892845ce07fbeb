package googleai

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/pkg/llms"
	"github.com/effective-security/xlog"
	"google.golang.org/genai"
)

const (
	RoleModel = "model"
	RoleUser  = "user"
)

// GetName implements the Model interface.
func (g *GoogleAI) GetName() string {
	return g.opts.DefaultModel
}

// GetProviderType implements the Model interface.
func (g *GoogleAI) GetProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// Complete implements the [llms.Model] interface.
func (g *GoogleAI) Complete(
	ctx context.Context,
	utterance string,
	history []chatmodel.Turn,
	tools []llms.ToolSchema,
) (*llms.Reply, error) {
	callCfg := &genai.GenerateContentConfig{
		CandidateCount: int32(g.opts.DefaultCandidateCount),
	}
	if g.opts.DefaultMaxTokens > 0 {
		callCfg.MaxOutputTokens = int32(g.opts.DefaultMaxTokens)
	}
	if g.opts.DefaultTemperature > 0 {
		callCfg.Temperature = genai.Ptr(float32(g.opts.DefaultTemperature))
	}
	if g.opts.HarmThreshold != "" {
		callCfg.SafetySettings = []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategoryHarassment,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategorySexuallyExplicit,
				Threshold: g.opts.HarmThreshold,
			},
		}
	}
	if len(tools) > 0 {
		callCfg.Tools = convertTools(tools)
	}

	contents := convertHistory(history, utterance)

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.opts.DefaultModel, contents, callCfg)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "generate_failed",
			"model", g.opts.DefaultModel,
			"err", err.Error(),
		)
		return nil, errors.Mark(errors.Wrap(err, "model call failed"), llms.ErrNoResponse)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "no_candidates",
			"model", g.opts.DefaultModel,
		)
		return nil, errors.WithStack(llms.ErrNoResponse)
	}

	reply := convertCandidate(ctx, resp.Candidates[0])

	if resp.UsageMetadata != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"model", g.opts.DefaultModel,
			"tokens_in", resp.UsageMetadata.PromptTokenCount,
			"tokens_out", resp.UsageMetadata.CandidatesTokenCount,
			"finish", reply.FinishReason,
		)
	}
	return reply, nil
}

// convertHistory builds the request contents: history followed by the user utterance
func convertHistory(history []chatmodel.Turn, utterance string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := RoleUser
		if turn.Role == chatmodel.RoleModel {
			role = RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	return append(contents, &genai.Content{
		Role:  RoleUser,
		Parts: []*genai.Part{{Text: utterance}},
	})
}

// convertTools returns one function declaration per tool
func convertTools(tools []llms.ToolSchema) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.GetDescription(),
			ParametersJsonSchema: t.GetInputSchema(),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// convertCandidate converts genai.Candidate to a reply,
// parts other than text and function calls are skipped.
func convertCandidate(ctx context.Context, candidate *genai.Candidate) *llms.Reply {
	reply := &llms.Reply{
		FinishReason: string(candidate.FinishReason),
	}
	if candidate.Content == nil {
		return reply
	}

	for _, part := range candidate.Content.Parts {
		switch {
		case part == nil:
		case part.FunctionCall != nil:
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			reply.Parts = append(reply.Parts, llms.FunctionCallPart(part.FunctionCall.Name, args))
		case part.Thought:
			// reasoning summaries are not surfaced
		case part.Text != "":
			reply.Parts = append(reply.Parts, llms.TextPart(part.Text))
		case part.InlineData != nil:
			logger.ContextKV(ctx, xlog.DEBUG,
				"status", "skipped_part",
				"kind", "inline_data",
				"mime_type", part.InlineData.MIMEType,
			)
		case part.FileData != nil:
			logger.ContextKV(ctx, xlog.DEBUG,
				"status", "skipped_part",
				"kind", "file_data",
				"mime_type", part.FileData.MIMEType,
			)
		}
	}
	return reply
}

