package constant

const (
	// IntentClassifierPrompt asks the model whether the user is requesting
	// an industry switch. The reply must be bare JSON; fenced replies are
	// tolerated by the parser.
	IntentClassifierPrompt = `You are an intent classifier for a multi-industry dashboard app.
The user may ask the dashboard to transform into a different industry or company, usually with a phrase like "Presto-Change-O, you're a bank" or "Presto, you're Wells Fargo".

Analyze the user message and respond with valid JSON only, using this exact structure:
{"industry": "<industry name>", "company_name": "<company name or null>"}

Rules:
- "industry": the industry the user wants (e.g., "banking", "insurance", "pet store"). If the user names only a company, infer its industry.
- "company_name": the exact company name if the user specified one (e.g., "Wells Fargo", "H-E-B"), otherwise null.
- If the message is NOT a request to switch industry or company, respond with {"industry": "none", "company_name": null}.

Respond with JSON only. No other text.`

	// VoiceGreetingFormat is injected as an authored turn after a voice
	// mode switch so the model greets the user in its new role.
	VoiceGreetingFormat = "The user just switched to %s mode. Greet them warmly as their new %s assistant. Be brief."
)
