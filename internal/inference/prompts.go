package inference

const analyzeSystemPrompt = `You are a video content analyst. You identify the
moments in a video most likely to perform well as short social clips. Respond
with JSON only.`

const analyzeUserPromptTemplate = `Analyze the video %q (duration %.1f
seconds, %d frames) and select 3 to 5 highlight moments suitable for short
social media clips.

Respond with a JSON array of objects with these keys:
- "start_time": clip start in seconds (number)
- "end_time": clip end in seconds (number, greater than start_time)
- "title": short catchy clip title
- "description": one sentence describing the moment
- "engagement_reason": why this moment would engage viewers

All times must lie within the video duration.`

const subtitleSystemPrompt = `You are a subtitle author. You write concise,
well-timed WebVTT subtitles. Respond with the WebVTT document only, no
commentary.`

const subtitleUserPromptTemplate = `Write WebVTT subtitles for a %.1f second
social media clip titled %q about: %s

Requirements:
- Start the document with the WEBVTT header.
- Use timestamps of the form HH:MM:SS.mmm.
- Cover the full clip; no cue may extend past %.1f seconds.
- Keep each cue to at most two short lines.`

const planSystemPrompt = `You are a social media strategist. You schedule
short-form video posts across platforms. Respond with JSON only.`

const planUserPromptTemplate = `Create a posting schedule for these %d video
highlights, one post per highlight, starting tomorrow (%s) with one post per
day. Rotate the platforms Instagram, YouTube and TikTok.

Highlights:
%s

Respond with a JSON array of objects with these keys:
- "highlight_index": zero-based index into the list above (number)
- "title": post title
- "caption": engaging caption for the post
- "platform": one of Instagram, YouTube, TikTok
- "posting_date": date in YYYY-MM-DD form
- "hashtags": array of hashtag words without the # prefix`
