// Package llm is the text generation client used by transcript cleanup.
//
// Backends are selected by name. REST backends implement [Dialect] and
// run through [Adapter], which reuses httpclient for transport. Backends
// built on a vendor SDK register a [Factory] instead. Both produce a
// [Provider], so provider middleware composes over either:
//
//	import (
//	    "github.com/kbukum/getscript/llm"
//	    _ "github.com/kbukum/getscript/llm/gemini"
//	)
//
//	p, err := llm.New(llm.Config{Dialect: "gemini", APIKey: key})
//	resp, err := p.Execute(ctx, llm.CompletionRequest{
//	    SystemPrompt: systemPrompt,
//	    Messages:     []llm.Message{{Role: "user", Content: userPrompt}},
//	})
package llm
