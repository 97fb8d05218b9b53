package pipeline

import "fmt"

// RefusalMessage is the fixed string the grounded-answer instruction makes
// the model return when the context does not contain the answer. Receiving
// it is a successful pipeline outcome, not an error.
const RefusalMessage = "I could not find the answer in the provided document."

const rewriteInstruction = `You are a query rewriting expert. Based on the provided chat history, rephrase the "Follow Up user Question" into a complete, standalone question that can be understood without the chat history.
Only output the rewritten question and nothing else.`

const answerInstructionFormat = `You have to behave like a Data Structure and Algorithm Expert.
You will be given a context of relevant information and a user question.
Your task is to answer the user's question based ONLY on the provided context.
If the answer is not in the context, you must say "%s"
Keep your answers clear, concise, and educational.

Context: %s`

// answerInstruction builds the grounded-generation system instruction for
// one request, embedding the assembled context block.
func answerInstruction(contextBlock string) string {
	return fmt.Sprintf(answerInstructionFormat, RefusalMessage, contextBlock)
}
