package constant

// EstimateDecisionPrompt steers the model toward one of three actions for a
// chat message about an existing estimate. Placeholders: current document
// JSON, conversation history, new user message.
const EstimateDecisionPrompt = `You are an assistant for a construction cost estimating tool.
The user has an existing estimate document and sent a new chat message.

Current estimate document:
%s

Conversation so far:
%s

New user message: %s

Decide how to handle the message. Reply with ONLY a JSON object:
{"action": "patch" | "regenerate" | "answer", "patches": [...], "reply": "..."}

Rules:
- Use "patch" for small targeted edits (change a cost, remove a line item,
  add a line item, reword the description). Fill "patches" with objects of
  the form {"json_path": "...", "operation": "Add"|"Remove"|"Replace", "new_value": ...}.
- Line items are addressed by their uid, never by position:
  /estimate_items/<uid>/<field> to edit a field,
  /estimate_items/<uid> with operation Remove to delete,
  /estimate_items with operation Add and a full item object to append.
- Top-level fields use paths like /project_description.
- Use "regenerate" when the request changes the scope of the whole project
  and the estimate needs to be rebuilt from scratch. Leave "patches" empty
  and summarize the requested changes in "reply".
- Use "answer" for questions that need no document change; put the answer
  text in "reply".`

// EstimateGenerationPrompt asks the model for a complete estimate document.
// Placeholders: project description, uploaded file context, requested changes.
const EstimateGenerationPrompt = `You are an experienced construction cost estimator.
Produce a cost estimate for the following project.

Project description:
%s

Supporting documents:
%s

Requested changes from the client (may be empty):
%s

Reply with ONLY a JSON object with this shape:
{
  "project_description": "...",
  "estimated_duration": "...",
  "confidence_level": "high" | "medium" | "low",
  "estimate_items": [
    {
      "description": "...",
      "category": "...",
      "subcategory": "...",
      "cost_range_min": 0,
      "cost_range_max": 0,
      "unit": "...",
      "quantity": 0,
      "assumptions": "...",
      "confidence_level": "...",
      "notes": "..."
    }
  ],
  "key_considerations": ["..."],
  "next_steps": ["..."],
  "missing_information": ["..."],
  "risk_factors": ["..."]
}
Do not include totals; they are derived from the items.`

// SessionTitlePrompt produces a short title for a new chat session from the
// first user message.
const SessionTitlePrompt = `Summarize the following message as a chat session title of at most six words. Reply with the title only, no quotes.

Message: %s`
