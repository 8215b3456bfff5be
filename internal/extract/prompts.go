package extract

const singleContactPrompt = `Extract the contact details from this business card.
Return one JSON object with the keys name, title, company, phone, email, website, address, linkedin, instagram, twitter.`

const multiContactPrompt = `This image may show more than one business card.
Return a JSON array with one object per card, in reading order, each with the keys
name, title, company, phone, email, website, address, linkedin, instagram, twitter.
If there is only one card, return a single JSON object instead.`

const textContactPrompt = `The text below was read from a business card by OCR and may contain recognition errors.
Fix obvious character mistakes and return one JSON object with the keys
name, title, company, phone, email, website, address, linkedin, instagram, twitter.`
